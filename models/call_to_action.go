package models

// CallToAction is stored inline on events and advertisements under the cta_
// column prefix.
type CallToAction struct {
	Label        string `json:"label"`
	URL          string `json:"url"`
	OpenInNewTab bool   `json:"open_in_new_tab"`
}

func (c CallToAction) IsZero() bool {
	return c.Label == "" && c.URL == ""
}
