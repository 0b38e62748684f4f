package data

import "errors"

// ErrUpstream wraps every failure to obtain entries from the catalogue.
var ErrUpstream = errors.New("upstream catalogue unavailable")

const (
	MsgInvalidLimit     = "Invalid limit"
	MsgLimitNotPositive = "Limit must be more than 0"
	MsgFetchFailed      = "Error fetching data"
)

// Entry is one public API listed by the upstream catalogue.
type Entry struct {
	API         string `json:"API" example:"AdoptAPet"`
	Description string `json:"Description" example:"Resource to help get pets adopted"`
	Auth        string `json:"Auth" example:"apiKey"`
	HTTPS       bool   `json:"HTTPS" example:"true"`
	Cors        string `json:"Cors" example:"yes"`
	Link        string `json:"Link" example:"https://www.adoptapet.com/public/apis/pet_list.html"`
	Category    string `json:"Category" example:"Animals"`
}

type catalogueResponse struct {
	Count   int     `json:"count"`
	Entries []Entry `json:"entries"`
}
