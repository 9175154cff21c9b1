package holders

import "strings"

type FilterOptions struct {
	IDs         []string `json:"ids"`
	Departments []string `json:"departments"`
	FreeWords   string   `json:"free_words"`
}

func containsFold(hay []string, needle string) bool {
	for _, h := range hay {
		if strings.EqualFold(h, needle) {
			return true
		}
	}
	return false
}

// Filter returns the holders matching every non-empty option. FreeWords
// must all appear in the name, ID number, department or extra values.
func Filter(holders []Holder, opt FilterOptions) []Holder {
	kw := strings.Fields(strings.ToLower(opt.FreeWords))
	out := []Holder{}
	for _, h := range holders {
		if len(opt.IDs) > 0 && !containsFold(opt.IDs, h.ID) {
			continue
		}
		if len(opt.Departments) > 0 && !containsFold(opt.Departments, h.Department) {
			continue
		}
		if len(kw) > 0 {
			parts := []string{h.Name, h.IDNumber, h.Department}
			for _, v := range h.Extra {
				parts = append(parts, v)
			}
			hay := strings.ToLower(strings.Join(parts, " "))
			ok := true
			for _, k := range kw {
				if !strings.Contains(hay, k) {
					ok = false
					break
				}
			}
			if !ok {
				continue
			}
		}
		out = append(out, h)
	}
	return out
}
