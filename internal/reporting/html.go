package reporting

import (
	"html/template"
	"strings"
)

var briefTemplate = template.Must(template.New("brief").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Fraud Detection Report</title>
<style>
body { font-family: sans-serif; margin: 2em; color: #222; }
table { border-collapse: collapse; margin-bottom: 1.5em; }
th, td { border: 1px solid #ccc; padding: 4px 10px; text-align: left; }
th { background: #f0f0f0; }
.case { border: 1px solid #ddd; border-radius: 4px; padding: 1em; margin-bottom: 1em; }
.risk-high { color: #b00020; font-weight: bold; }
.action { font-family: monospace; background: #f6f6f6; padding: 1px 4px; }
</style>
</head>
<body>
<h1>Fraud Detection Report</h1>
<p>Generated: {{.GeneratedAt.Format "2006-01-02 15:04:05 MST"}}</p>

<h2>Input Summary</h2>
<table>
<tr><th>Partners</th><td>{{.Summary.Partners}}</td></tr>
<tr><th>Sub-Affiliates</th><td>{{.Summary.SubAffiliates}}</td></tr>
<tr><th>Clients</th><td>{{.Summary.Clients}}</td></tr>
<tr><th>Trades</th><td>{{.Summary.Trades}}</td></tr>
<tr><th>Skipped Trade Rows</th><td>{{.Summary.SkippedTrades}}</td></tr>
</table>

<h2>Evidence Briefs</h2>
{{if not .Evidence}}<p>No cases opened.</p>{{end}}
{{range .Evidence}}
<div class="case">
<h3>Case {{printf "%.12s" .CaseID}}</h3>
<p>{{.Hypothesis}}</p>
<p>Confidence: <span{{if ge .Confidence 0.9}} class="risk-high"{{end}}>{{printf "%.2f" .Confidence}}</span>
 | Exposure: {{printf "%.2f" .Exposure}}</p>
<ul>
{{range .Indicators}}<li>{{.}}</li>
{{end}}</ul>
{{with .AgentDecision}}
<p>Agent action: <span class="action">{{.SelectedAction}}</span> ({{.Status}}) — {{.Justification}}</p>
{{end}}
</div>
{{end}}
</body>
</html>
`))

// RenderHTML renders the report's evidence briefs as a standalone HTML page.
func RenderHTML(r *Report) (string, error) {
	var sb strings.Builder
	if err := briefTemplate.Execute(&sb, r); err != nil {
		return "", err
	}
	return sb.String(), nil
}
