package models

type AdminDashboard struct {
	Games        []Game   `json:"games"`
	Teams        []Team   `json:"teams"`
	Results      []Result `json:"results"`
	Users        []User   `json:"users"`
	ResultToEdit *Result  `json:"result_to_edit,omitempty"`
}
