package dto

type SearchResult struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

type Product struct {
	Code     string  `json:"code"`
	Name     string  `json:"name"`
	Calories float64 `json:"calories"`
	Carbs    float64 `json:"carbs"`
	Proteins float64 `json:"proteins"`
	Fats     float64 `json:"fats"`
}
