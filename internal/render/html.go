package render

import (
	"bytes"
	"encoding/base64"
	"html/template"
	"io"

	"go-microplastic-inspector/internal/view"
)

// Page is everything the single page template can show
type Page struct {
	Title          string
	Alert          *view.Alert
	Report         *view.Report
	History        view.HistoryView
	Detail         *view.HistoryDetail
	MaxUploadLabel string
	Width          int

	TypeChartURI template.URL
	SizeChartURI template.URL
}

// HTMLRenderer renders pages with charts embedded as data URIs
type HTMLRenderer struct {
	tmpl   *template.Template
	drawer ChartDrawer
	format Format
}

func NewHTMLRenderer(drawer ChartDrawer, format Format) *HTMLRenderer {
	funcMap := template.FuncMap{
		"badge": func(c view.Color) string { return "badge badge-" + string(c) },
	}
	return &HTMLRenderer{
		tmpl:   template.Must(template.New("page").Funcs(funcMap).Parse(pageTemplate)),
		drawer: drawer,
		format: format,
	}
}

// Render draws the report charts, if any, and executes the page template
func (r *HTMLRenderer) Render(w io.Writer, p Page) error {
	if p.Report != nil {
		var err error
		if p.TypeChartURI, err = r.chartURI(func(buf io.Writer) (bool, error) {
			return DrawTypeChart(r.drawer, buf, p.Report.TypeChart)
		}); err != nil {
			return err
		}
		if p.SizeChartURI, err = r.chartURI(func(buf io.Writer) (bool, error) {
			return DrawSizeChart(r.drawer, buf, p.Report.SizeChart)
		}); err != nil {
			return err
		}
	}
	return r.tmpl.Execute(w, p)
}

func (r *HTMLRenderer) chartURI(draw func(io.Writer) (bool, error)) (template.URL, error) {
	var buf bytes.Buffer
	drawn, err := draw(&buf)
	if err != nil || !drawn {
		return "", err
	}
	mimeType := "image/png"
	if r.format == FormatSVG {
		mimeType = "image/svg+xml"
	}
	return template.URL("data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(buf.Bytes())), nil
}

const pageTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}}</title>
<style>
:root {
  --bg: #f4f6f8; --fg: #1a1a2e; --card-bg: #fff; --border: #dee2e6; --muted: #6c757d;
  --success: #28a745; --warning: #ffc107; --danger: #dc3545; --info: #17a2b8;
  --primary: #0d6efd; --secondary: #6c757d;
}
* { box-sizing: border-box; margin: 0; padding: 0; }
body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif; background: var(--bg); color: var(--fg); line-height: 1.5; padding: 1rem; max-width: 1200px; margin: 0 auto; }
h1 { font-size: 1.5rem; margin-bottom: 1rem; }
h2 { font-size: 1.125rem; margin-bottom: .5rem; }
section { background: var(--card-bg); border: 1px solid var(--border); border-radius: 8px; padding: 1rem; margin-bottom: 1rem; }
.summary { display: grid; grid-template-columns: repeat(auto-fit, minmax(140px, 1fr)); gap: .75rem; }
.summary .value { font-size: 1.5rem; font-weight: 700; }
.summary .label { font-size: .75rem; color: var(--muted); text-transform: uppercase; }
.charts { display: grid; grid-template-columns: repeat(2, 1fr); gap: 1rem; }
@media (max-width: 768px) { .charts, .columns { grid-template-columns: 1fr; } }
.charts img { max-width: 100%; }
.columns { display: grid; grid-template-columns: 1fr 1fr; gap: 1rem; }
.placeholder { color: var(--muted); font-style: italic; }
.badge { display: inline-block; padding: .125rem .5rem; border-radius: 3px; color: #fff; font-size: .75rem; font-weight: 700; }
.badge-success { background: var(--success); } .badge-warning { background: var(--warning); color: #1a1a2e; }
.badge-danger { background: var(--danger); } .badge-info { background: var(--info); }
.badge-primary { background: var(--primary); } .badge-secondary { background: var(--secondary); }
.effectiveness-very-high, .effectiveness-high { color: var(--success); }
.effectiveness-medium { color: var(--warning); } .effectiveness-low { color: var(--danger); }
.alert { padding: .75rem 1rem; border-radius: 6px; margin-bottom: 1rem; color: #fff; animation: dismiss .3s ease-in forwards; }
.alert-info { background: var(--info); } .alert-warning { background: var(--warning); color: #1a1a2e; } .alert-danger { background: var(--danger); }
@keyframes dismiss { to { opacity: 0; height: 0; padding: 0; margin: 0; overflow: hidden; } }
.history-item { border-bottom: 1px solid var(--border); padding: .5rem 0; }
.history-item .meta { color: var(--muted); font-size: .8125rem; }
.overlay { position: fixed; inset: 0; background: rgba(0,0,0,.5); display: flex; align-items: center; justify-content: center; }
.overlay .modal { background: var(--card-bg); border-radius: 8px; padding: 1.5rem; max-width: 420px; width: 90%; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
{{with .Alert}}<div class="alert alert-{{.Level}}" role="alert" style="animation-delay: {{.DismissSeconds}}s">{{.Message}}</div>{{end}}

<section>
<h2>Upload Image</h2>
<form id="upload-form" method="post" action="/upload" enctype="multipart/form-data">
<input type="file" name="file" accept="image/*" required>
<input type="hidden" name="width" value="{{.Width}}">
<button type="submit">Analyze</button>
<p class="placeholder">Images only, less than {{.MaxUploadLabel}}.</p>
</form>
<script>
document.getElementById("upload-form").addEventListener("submit", function () {
  this.elements.width.value = window.innerWidth;
});
</script>
</section>

{{with .Report}}
<section>
<h2>Analysis Summary</h2>
<div class="summary">
<div><div class="value">{{.Summary.ParticleCount}}</div><div class="label">Total Particles</div></div>
<div><div class="value">{{.Summary.TypesFound}}</div><div class="label">Types Found</div></div>
<div><div class="value"><span class="{{badge .Summary.RiskColor}}">{{.Summary.RiskLabel}}</span></div><div class="label">Environmental Risk</div></div>
<div><div class="value">{{.Summary.Confidence}}</div><div class="label">Avg Confidence</div></div>
</div>
</section>

<section class="charts">
<div>
<h2>{{.TypeChart.Title}}</h2>
{{if .TypeChart.Placeholder}}<p class="placeholder">{{.TypeChart.Placeholder}}</p>{{else if $.TypeChartURI}}<img src="{{$.TypeChartURI}}" alt="{{.TypeChart.Title}}">{{end}}
</div>
<div>
<h2>{{.SizeChart.Title}}</h2>
{{if .SizeChart.Placeholder}}<p class="placeholder">{{.SizeChart.Placeholder}}</p>{{else if $.SizeChartURI}}<img src="{{$.SizeChartURI}}" alt="{{.SizeChart.Title}}">{{end}}
</div>
</section>

<section class="columns">
<div>
<h2>Detected Types</h2>
{{with .Details.TypesPlaceholder}}<p class="placeholder">{{.}}</p>{{end}}
{{range .Details.Types}}<div class="history-item"><strong>{{.Name}}</strong> {{.CountLabel}} <span class="meta">confidence {{.Confidence}}</span></div>{{end}}
</div>
<div>
<h2>Baseline Comparison</h2>
{{with .Details.BaselinePlaceholder}}<p class="placeholder">{{.}}</p>{{end}}
{{range .Details.Baseline}}<div class="history-item"><strong>{{.Type}}</strong> {{.SamplePercentage}} of sample <span class="{{badge .StatusColor}}">{{.Status}}</span>{{with .TypicalRange}} <span class="meta">typical {{.}}</span>{{end}}</div>{{end}}
{{with .Details.Trend}}<p class="meta">Dominant type: {{.DominantType}}, diversity index {{.DiversityIndex}}{{with .OverallAssessment}} ({{.}}){{end}}</p>{{end}}
</div>
</section>

<section>
<h2>Recommendations</h2>
{{with .Recommendations}}
{{if .Placeholder}}<p class="placeholder">{{.Placeholder}}</p>{{else}}
<p>Priority: <span class="{{badge .PriorityColor}}">{{.PriorityLabel}}</span></p>
{{range .Solutions}}<div class="history-item"><strong>{{.Title}}</strong><p>{{.Description}}</p>
<p class="meta">Effectiveness: <span class="{{.EffectivenessClass}}">{{.Effectiveness}}</span> | Cost: {{.Cost}} | Implementation: {{.Implementation}}</p></div>{{end}}
{{if .HasPlan}}<h2>Implementation Plan</h2>
{{range .Phases}}<div class="history-item"><strong>{{.Name}}</strong><ul>{{range .Actions}}<li>{{.}}</li>{{end}}</ul></div>{{end}}{{end}}
{{with .EstimatedCost}}<p class="meta">Estimated cost: {{.}}</p>{{end}}
{{end}}
{{end}}
</section>
{{end}}

<section>
<h2>Analysis History</h2>
{{with .History.Placeholder}}<p class="placeholder">{{.}}</p>{{end}}
{{range .History.Items}}<div class="history-item">
<strong>{{.Filename}}</strong> <span class="badge badge-primary">{{.ParticleBadge}}</span>
<div class="meta">{{.When}} | {{.TypeCount}}</div>
<div class="meta">{{.TypesLine}}</div>
<a href="/history/{{.ID}}">View details</a>
</div>{{end}}
</section>

{{with .Detail}}<div class="overlay"><div class="modal">
<h2>Analysis Details</h2>
<p><strong>Filename:</strong> {{.Filename}}</p>
<p><strong>Date:</strong> {{.Date}}</p>
<p><strong>Particles Found:</strong> {{.ParticlesFound}}</p>
<p class="meta">{{.Note}}</p>
<a href="/">Close</a>
</div></div>{{end}}
</body>
</html>
`
