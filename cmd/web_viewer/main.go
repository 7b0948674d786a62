package main

import (
	"encoding/base64"
	"html/template"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/pflag"

	"minebot/internal/config"
	"minebot/internal/database"
)

type PageData struct {
	Status  database.Status
	Actions []database.Action
	Cycles  []database.CycleRecord
	Samples []database.Sample
	Limit   int
}

var pageTemplate = template.Must(template.New("layout").Funcs(template.FuncMap{
	"base64encode": func(data []byte) string {
		return base64.StdEncoding.EncodeToString(data)
	},
	"formatDateTime": func(dateTimeStr string) string {
		t, err := time.Parse("2006-01-02T15:04:05Z", dateTimeStr)
		if err != nil {
			// Если не удалось распарсить, возвращаем исходную строку
			return dateTimeStr
		}
		return t.Local().Format("02.01.2006 15:04:05")
	},
	"moves": func(moves string) []string {
		return strings.Fields(moves)
	},
}).Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>minebot</title>
<style>
body { font-family: sans-serif; margin: 2em; }
pre { font-size: 16px; line-height: 1; background: #f4f4f4; padding: .5em; display: inline-block; }
.cycle { border-bottom: 1px solid #ddd; padding: .5em 0; }
.samples img { width: 34px; height: 34px; image-rendering: pixelated; margin: 2px; border: 1px solid #ccc; }
</style>
</head>
<body>
<h1>minebot</h1>
<p>Статус: <b>{{.Status.CurrentStatus}}</b> ({{formatDateTime .Status.UpdatedAt}})</p>
<form method="post" action="/stop"><button type="submit">⏹️ Остановить</button></form>

<h2>Последние действия</h2>
<ul>
{{range .Actions}}<li>{{.Action}} {{if .Executed}}✅{{else}}⏳{{end}} {{formatDateTime .CreatedAt}}</li>{{end}}
</ul>

<h2>Нераспознанные клетки</h2>
<div class="samples">
{{range .Samples}}<img title="{{.SampleID}}" src="data:image/png;base64,{{base64encode .ImageData}}">{{end}}
</div>

<h2>Последние {{.Limit}} циклов</h2>
{{range .Cycles}}
<div class="cycle">
<p>#{{.ID}} {{formatDateTime .CreatedAt}}: {{.Rows}}x{{.Cols}}, мин {{.Mines}}, решатель {{.Solver}}</p>
<pre>{{.Board}}</pre>
<p>{{range moves .Moves}}<code>{{.}}</code> {{end}}</p>
</div>
{{end}}
</body>
</html>`))

func main() {
	configPath := pflag.StringP("config", "c", "", "путь к config.yaml")
	addr := pflag.String("addr", "0.0.0.0:8080", "адрес HTTP сервера")
	pflag.Parse()

	c, err := config.InitConfig(*configPath)
	if err != nil {
		log.Fatalf("Ошибка чтения конфигурации: %v", err)
	}

	// Подключаемся к базе данных
	db, err := database.Open(c.Database.DSN)
	if err != nil {
		log.Fatalf("Ошибка подключения к базе данных: %v", err)
	}
	defer db.Close()
	dbManager := database.NewDatabaseManager(db, false, nil)

	http.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		limit := 20
		if l, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && l > 0 && l <= 500 {
			limit = l
		}

		var err error
		data := PageData{Limit: limit}
		data.Status, data.Actions, err = dbManager.LatestStatus(10)
		if err != nil {
			http.Error(w, "DB error", http.StatusInternalServerError)
			return
		}
		if data.Cycles, err = dbManager.RecentCycles(limit); err != nil {
			http.Error(w, "DB error", http.StatusInternalServerError)
			return
		}
		if data.Samples, err = dbManager.RecentSamples(100); err != nil {
			http.Error(w, "DB error", http.StatusInternalServerError)
			return
		}

		if err := pageTemplate.ExecuteTemplate(w, "layout", data); err != nil {
			http.Error(w, "Template execution error: "+err.Error(), http.StatusInternalServerError)
		}
	})

	http.HandleFunc("/stop", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		if err := dbManager.AddAction(database.ActionStop); err != nil {
			http.Error(w, "DB error", http.StatusInternalServerError)
			return
		}
		http.Redirect(w, r, "/", http.StatusSeeOther)
	})

	log.Printf("🌐 Откройте http://%s в браузере", *addr)
	if err := http.ListenAndServe(*addr, nil); err != nil {
		log.Fatalf("Ошибка запуска сервера: %v", err)
	}
}
