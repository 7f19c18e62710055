package report

import (
	"html/template"
	"os"
	"path/filepath"

	"github.com/noticekit/noticeforge/constants"
	"github.com/noticekit/noticeforge/internal/common"
	"github.com/noticekit/noticeforge/internal/entity"
)

var dashboardTmpl = template.Must(template.New("dashboard").Parse(`<!DOCTYPE html>
<html lang="ja">
<head>
<meta charset="utf-8">
<title>処理結果ダッシュボード</title>
<style>
body { font-family: sans-serif; margin: 2em; }
table { border-collapse: collapse; width: 100%; }
th, td { border: 1px solid #ccc; padding: 4px 8px; text-align: left; vertical-align: top; }
th { background: #f0f0f0; }
tr.review { background: #fff3e0; }
.stats { margin-bottom: 1.5em; }
.stats span { margin-right: 2em; }
</style>
</head>
<body>
<h1>処理結果ダッシュボード</h1>
<div class="stats">
<span>総件数: {{.Total}}</span>
{{range .TypeCounts}}<span>{{.Label}}: {{.Count}}</span>{{end}}
<span>要確認: {{.ReviewCount}}</span>
</div>
<table>
<tr><th>種別</th><th>タイトル(推定)</th><th>日付(推定)</th><th>発出者(推定)</th><th>要確認</th><th>理由</th><th>元ファイル</th></tr>
{{range .Records}}<tr{{if .NeedsReview}} class="review"{{end}}>
<td>{{.DocType.Label}}</td><td>{{.Title}}</td><td>{{.Date}}</td><td>{{.Issuer}}</td>
<td>{{if .NeedsReview}}要確認{{end}}</td><td>{{.Reason}}</td><td>{{.RelPath}}</td>
</tr>
{{end}}</table>
</body>
</html>
`))

type typeCount struct {
	Label string
	Count int
}

type dashboardData struct {
	Total       int
	ReviewCount int
	TypeCounts  []typeCount
	Records     []*entity.Record
}

// WriteDashboard renders the standalone HTML overview.
func WriteDashboard(outDir string, records []*entity.Record) error {
	data := dashboardData{Total: len(records), Records: records}
	for _, typ := range constants.AllDocTypes() {
		n := 0
		for _, r := range records {
			if r.DocType == typ {
				n++
			}
		}
		data.TypeCounts = append(data.TypeCounts, typeCount{Label: typ.Label(), Count: n})
	}
	for _, r := range records {
		if r.NeedsReview {
			data.ReviewCount++
		}
	}

	path := filepath.Join(outDir, DashboardFileName)
	f, err := os.Create(path)
	if err != nil {
		return common.ArtifactError(DashboardFileName, err)
	}
	if err := dashboardTmpl.Execute(f, data); err != nil {
		f.Close()
		return common.ArtifactError(DashboardFileName, err)
	}
	return f.Close()
}
