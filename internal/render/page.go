package render

import (
	"bytes"
	"fmt"
	"html/template"
	"io"

	"energy-dashboard-go/internal/viewmodel"
)

// EchartsAsset is the echarts build the page loads.
const EchartsAsset = "https://go-echarts.github.io/go-echarts-assets/assets/echarts.min.js"

type pageSection struct {
	Slot string
	HTML template.HTML
}

type pageData struct {
	Theme    string
	Asset    string
	Sections []pageSection
}

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="ko">
<head>
<meta charset="utf-8">
<title>신재생에너지 발전 대시보드</title>
<script src="{{.Asset}}"></script>
<style>
body { font-family: Pretendard, "Noto Sans KR", sans-serif; margin: 0; padding: 24px; }
body.dark { background: #100c2a; color: #e5e7eb; }
.slot { margin-bottom: 32px; }
.stats { display: flex; flex-wrap: wrap; gap: 16px; }
.stat-card { flex: 1 1 180px; border-radius: 8px; padding: 16px; background: rgba(127, 127, 127, 0.08); }
.stat-title { font-size: 0.85em; opacity: 0.7; }
.stat-value { font-size: 1.6em; font-weight: 700; }
.dashboard-table, .dashboard-heatmap { border-collapse: collapse; width: 100%; }
.dashboard-table td, .dashboard-table th, .dashboard-heatmap td, .dashboard-heatmap th { padding: 6px 10px; text-align: right; }
.heat-cell { display: block; padding: 4px 6px; border-radius: 4px; }
</style>
</head>
<body class="{{.Theme}}">
{{range .Sections}}<section class="slot" id="slot-{{.Slot}}">
{{.HTML}}
</section>
{{end}}</body>
</html>
`))

var statsTemplate = template.Must(template.New("stats").Parse(`<div class="stats" data-year="{{.Year}}">
{{range .Cards}}<div class="stat-card"><div class="stat-title">{{.Title}}</div><div class="stat-value">{{.Value}}</div>{{if .Detail}}<div class="stat-detail">{{.Detail}}</div>{{end}}</div>
{{end}}</div>
{{if .Insight}}<p class="insight">{{.Insight}}</p>{{end}}`))

func renderPage(w io.Writer, data pageData) error {
	if data.Asset == "" {
		data.Asset = EchartsAsset
	}
	if err := pageTemplate.Execute(w, data); err != nil {
		return fmt.Errorf("render page: %w", err)
	}
	return nil
}

func statsFragment(spec *viewmodel.StatsSpec) (template.HTML, error) {
	var buf bytes.Buffer
	if err := statsTemplate.Execute(&buf, spec); err != nil {
		return "", fmt.Errorf("render stats: %w", err)
	}
	return template.HTML(buf.String()), nil
}
