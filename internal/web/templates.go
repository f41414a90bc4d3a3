package web

import (
    "bytes"
    "html/template"
    "net/http"

    "github.com/jaminalder/tic-tac-toe-solver/internal/app"
    "github.com/jaminalder/tic-tac-toe-solver/internal/config"
    "github.com/jaminalder/tic-tac-toe-solver/internal/domain"
)

type templates struct {
    base  *template.Template
    game  *template.Template
    board *template.Template
    index *template.Template
}

func funcs() template.FuncMap {
    return template.FuncMap{
        "iter": func(n int) []int { a := make([]int, n); for i := range a { a[i] = i }; return a },
        "cellSymbol": func(c domain.Cell) string {
            switch c { case domain.X: return "X"; case domain.O: return "O"; default: return "" }
        },
        "eq":  func(a, b any) bool { return a == b },
        "add": func(a, b int) int { return a + b },
        "mul": func(a, b int) int { return a * b },
        "inLine": func(line []int, i int) bool {
            for _, v := range line {
                if v == i {
                    return true
                }
            }
            return false
        },
    }
}

func loadTemplates() *templates {
    base := template.Must(template.New("base").Funcs(funcs()).Parse(`<!doctype html><html><head>
<meta charset="utf-8"/>
<script src="https://unpkg.com/htmx.org@1.9.12"></script>
<script src="https://unpkg.com/htmx.org/dist/ext/sse.js"></script>
</head><body>{{template "content" .}}</body></html>`))
    index := template.Must(template.Must(base.Clone()).New("content").Parse(indexTemplate))
    game := template.Must(template.Must(base.Clone()).New("content").Parse(`
<div hx-ext="sse" hx-sse="connect:/game/{{.Game.ID}}/events">
  <div id="board-slot" hx-sse="swap:board">{{.Board}}</div>
</div>
<p><a href="/game/{{.Game.ID}}/tree.txt">Decision tree</a> · <a href="/game/{{.Game.ID}}/analysis">Analysis</a></p>`))
    // Standalone board template used for fragment rendering
    board := template.Must(template.New("board_only").Funcs(funcs()).Parse(boardTemplate))
    return &templates{base: base, game: game, board: board, index: index}
}

func renderTemplate(t *template.Template, name string, data any) []byte {
    var buf bytes.Buffer
    if name == "" {
        _ = t.Execute(&buf, data)
    } else {
        _ = t.ExecuteTemplate(&buf, name, data)
    }
    return buf.Bytes()
}

const indexTemplate = `<h1>TicTacToe</h1>
<form action="/game" method="post">
  <select name="mode">
    <option value="bot" selected>Play the bot</option>
    <option value="study">Study board</option>
  </select>
  <select name="difficulty">
    {{range .Difficulties}}<option value="{{.}}"{{if eq . $.Default}} selected{{end}}>{{.}}</option>{{end}}
  </select>
  <select name="bot_side">
    <option value="o" selected>Bot plays O</option>
    <option value="x">Bot plays X</option>
  </select>
  <button>Create</button>
</form>`

const boardTemplate = `
<div id="board">
  {{if .Error}}
  <div class="alert">{{.Error}}</div>
  {{end}}
  <div class="status">{{.Status}}</div>
  {{/* 3x3 grid */}}
  {{range $r := iter 3}}
  <div class="row">
    {{range $c := iter 3}}
      {{$i := add (mul $r 3) $c}}
      <form hx-post="/game/{{$.ID}}/play" hx-target="#board" hx-swap="outerHTML" method="post">
        <input type="hidden" name="r" value="{{$r}}">
        <input type="hidden" name="c" value="{{$c}}">
        <button type="submit"{{if inLine $.Line $i}} class="win"{{end}}>{{cellSymbol (index $.Game.Board $i)}}</button>
      </form>
    {{end}}
  </div>
  {{end}}
  {{with .Decision}}<div class="decision">Bot played {{.Move}} (score {{.Score}}, {{.Outcome}}, {{.Stats.Nodes}} nodes)</div>{{end}}
  <form hx-post="/game/{{.ID}}/reset" hx-target="#board" hx-swap="outerHTML" method="post"><button>Restart</button></form>
</div>
`

// boardData feeds the board template.
type boardData struct {
    ID       string
    Game     struct{ Board domain.Board }
    Line     []int
    Status   string
    Error    string
    Decision *app.Decision
}

type indexData struct {
    Difficulties []config.Difficulty
    Default      config.Difficulty
}

// Helper to set cookie
func ensurePlayerCookie(w http.ResponseWriter, r *http.Request) string {
    if c, err := r.Cookie("player_id"); err == nil && c.Value != "" {
        return c.Value
    }
    v := app.NewPlayerID()
    http.SetCookie(w, &http.Cookie{Name: "player_id", Value: v, Path: "/"})
    return v
}
