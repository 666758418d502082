package domain

type ParkingSpot struct {
	ID        int      `json:"id"`
	Category  Category `json:"category"`
	Available bool     `json:"available"`
}

type Availability struct {
	Category Category `json:"category"`
	Free     int      `json:"free"`
	Total    int      `json:"total"`
}
