package view

import (
	"strconv"
	"strings"
	"time"

	"go-microplastic-inspector/pkg/models"
)

const (
	NoHistoryPlaceholder    = "No analysis history found"
	HistoryErrorPlaceholder = "Error loading history"

	dateLayout = "1/2/2006"
	timeLayout = "3:04:05 PM"
)

// HistoryItem is one rendered history row
type HistoryItem struct {
	ID            int64  `json:"id"`
	Filename      string `json:"filename"`
	Date          string `json:"date"`
	Time          string `json:"time"`
	TypesLine     string `json:"types_line"`
	ParticleBadge string `json:"particle_badge"`
	TypeCount     string `json:"type_count"`
}

// When is the combined date line shown under the filename
func (h HistoryItem) When() string {
	if h.Date == "" {
		return ""
	}
	return h.Date + " at " + h.Time
}

// HistoryView is the full rendered history list
type HistoryView struct {
	Placeholder string        `json:"placeholder,omitempty"`
	Items       []HistoryItem `json:"items,omitempty"`
}

// BuildHistory maps history entries to rows, formatting dates in loc
func BuildHistory(entries []models.HistoryEntry, loc *time.Location) HistoryView {
	if len(entries) == 0 {
		return HistoryView{Placeholder: NoHistoryPlaceholder}
	}
	if loc == nil {
		loc = time.Local
	}

	v := HistoryView{Items: make([]HistoryItem, 0, len(entries))}
	for _, e := range entries {
		item := HistoryItem{
			ID:            e.ID,
			Filename:      e.Filename,
			TypesLine:     "Types found: " + joinTypes(e.MicroplasticTypes),
			ParticleBadge: strconv.Itoa(e.ParticleCount) + " particles",
			TypeCount:     strconv.Itoa(len(e.MicroplasticTypes)) + " types",
		}
		if !e.Date.IsZero() {
			local := e.Date.InLocation(loc)
			item.Date = local.Format(dateLayout)
			item.Time = local.Format(timeLayout)
		}
		v.Items = append(v.Items, item)
	}
	return v
}

// HistoryError is the view shown when the history could not be fetched
func HistoryError() HistoryView {
	return HistoryView{Placeholder: HistoryErrorPlaceholder}
}

func joinTypes(types []string) string {
	if len(types) == 0 {
		return "None"
	}
	return strings.Join(types, ", ")
}

const HistoryDetailNote = "Only the fields shown in the history list are available for past analyses."

// HistoryDetail is the transient overlay for one history row
type HistoryDetail struct {
	ID             int64  `json:"id"`
	Filename       string `json:"filename"`
	Date           string `json:"date"`
	ParticlesFound string `json:"particles_found"`
	Note           string `json:"note"`
}

// DetailFromView reconstructs a detail overlay from an already rendered history view.
// No fetch happens; the rendered row is the only source.
func DetailFromView(v HistoryView, id int64) (HistoryDetail, bool) {
	for _, item := range v.Items {
		if item.ID != id {
			continue
		}
		return HistoryDetail{
			ID:             item.ID,
			Filename:       item.Filename,
			Date:           item.When(),
			ParticlesFound: item.ParticleBadge,
			Note:           HistoryDetailNote,
		}, true
	}
	return HistoryDetail{}, false
}
