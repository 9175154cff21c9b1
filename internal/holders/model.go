package holders

import "strings"

// Holder is the person an ID card is issued to.
type Holder struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	IDNumber    string            `json:"id_number"`
	DateOfBirth string            `json:"date_of_birth"`
	Department  string            `json:"department"`
	PhotoURL    string            `json:"photo_url"`
	QRText      string            `json:"qr_text"`
	Extra       map[string]string `json:"extra,omitempty"`
}

// Fields returns the template data for the holder. Extra columns are
// included under their lower-cased header names.
func (h Holder) Fields() map[string]string {
	out := make(map[string]string, 7+len(h.Extra))
	for k, v := range h.Extra {
		out[strings.ToLower(k)] = v
	}
	out["id"] = h.ID
	out["name"] = h.Name
	out["id_number"] = h.IDNumber
	out["date_of_birth"] = h.DateOfBirth
	out["department"] = h.Department
	out["photo_url"] = h.PhotoURL
	out["qr_text"] = h.QRText
	return out
}
