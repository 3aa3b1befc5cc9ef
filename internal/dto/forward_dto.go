package dto

type CulturalMatchRequest struct {
	Preferences string `json:"preferences"`
	TopN        int    `json:"top_n"`
}

type ClientConfigDTO struct {
	APIURL string `json:"api_url"`
}
