package output

const emailTpl = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <title>Weekly Controversy Scan: {{ .Key }}</title>
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, Arial, sans-serif; color: #1e293b; line-height: 1.5; }
        .container { max-width: 800px; margin: 0 auto; }
        table { border-collapse: collapse; width: 100%; }
        th, td { border-bottom: 1px solid #e2e8f0; padding: 6px 8px; text-align: left; vertical-align: top; }
        .sev-high { color: #dc2626; font-weight: bold; }
        .trend-Worsening { color: #dc2626; }
        .trend-Improving { color: #16a34a; }
        .muted { color: #64748b; font-size: 0.9em; }
    </style>
</head>
<body>
<div class="container">
    <h1>Weekly Controversy Scan: {{ .Key }}</h1>
    <div class="muted">Week ending {{ .Report.WeekEnding }} • {{ len .Report.Companies }} companies</div>

    <h2>Portfolio Snapshot</h2>
    <ul>
        <li>Total incidents: {{ .Summary.TotalIncidents }} ({{ .TotalDelta }} WoW)</li>
        <li>Avg severity: {{ printf "%.2f" .Summary.AvgSeverity }} ({{ .AvgDelta }} WoW)</li>
        <li>Major (4-5): {{ .Summary.CountSev45 }}</li>
        <li>Trend: <b class="trend-{{ .Summary.Trend }}">{{ .Summary.Trend }}</b>. {{ .Summary.Notes }}</li>
    </ul>
    <table>
        <tr><th>Category</th><th>Incidents</th></tr>
        {{- range .Categories }}
        <tr><td>{{ .Category }}</td><td>{{ .Count }}</td></tr>
        {{- end }}
    </table>

    <h2>Top Incidents</h2>
    {{- if .Top }}
    <table>
        <tr><th>Company</th><th>Category</th><th>Severity</th><th>Summary</th><th>Source</th></tr>
        {{- range .Top }}
        <tr>
            <td>{{ .CompanyName }}{{ if .Ticker }} ({{ .Ticker }}){{ end }}</td>
            <td>{{ .Category }}</td>
            <td class="{{ if ge .Severity 4 }}sev-high{{ end }}">{{ .Severity }}</td>
            <td>{{ .Summary }}<div class="muted">{{ .FirstSeen }}</div></td>
            <td>{{ with .PrimarySource }}{{ if .URL }}<a href="{{ .URL }}">{{ .Outlet }}</a>{{ else }}{{ .Outlet }}{{ end }}{{ end }}</td>
        </tr>
        {{- end }}
    </table>
    {{- else }}
    <p>No incidents this week.</p>
    {{- end }}

    <h2>Company Trends</h2>
    <h3 class="trend-Worsening">Worsening</h3>
    <ul>{{ range .Trends.Worsening }}<li>{{ . }}</li>{{ else }}<li class="muted">None</li>{{ end }}</ul>
    <h3 class="trend-Improving">Improving</h3>
    <ul>{{ range .Trends.Improving }}<li>{{ . }}</li>{{ else }}<li class="muted">None</li>{{ end }}</ul>
    <h3>Stable</h3>
    <ul>{{ range .Trends.Stable }}<li>{{ . }}</li>{{ else }}<li class="muted">None</li>{{ end }}</ul>
</div>
</body>
</html>
`
