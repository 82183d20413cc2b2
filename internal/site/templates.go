package site

// layoutTemplate holds the chrome shared by every page.
const layoutTemplate = `{{define "head"}}<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>{{.PageTitle}}</title>
  <link rel="stylesheet" href="{{.BasePath}}style.css">
</head>
<body>
  <header class="top">
    <a class="brand" href="{{.BasePath}}index.html">{{.SiteTitle}}</a>
  </header>
{{end}}

{{define "foot"}}
  <footer class="foot">
    <span>{{.SiteTitle}}</span>
  </footer>
{{if .LiveReload}}
  <script>
    (function () {
      var proto = location.protocol === "https:" ? "wss://" : "ws://";
      var ws = new WebSocket(proto + location.host + "/ws/reload");
      ws.onmessage = function () { location.reload(); };
    })();
  </script>
{{end}}
</body>
</html>{{end}}`

// listingTemplate renders the filterable card grid.
const listingTemplate = `{{template "head" .}}
  <main class="wrap">
    <section class="controls">
      <nav class="filters">
        {{range .Filters}}<a class="filter{{if .Active}} active{{end}}" data-filter="{{.Value}}" href="{{.Href}}">{{.Label}}</a>
        {{end}}
      </nav>
      {{if .Searchable}}
      <form class="search" method="get" action="{{.BasePath}}index.html">
        {{if ne .Category "all"}}<input type="hidden" name="category" value="{{.Category}}">{{end}}
        <input id="searchInput" type="search" name="q" value="{{.Query}}" placeholder="Search posts..." autocomplete="off">
      </form>
      {{end}}
    </section>
    <section id="postsGrid" class="grid">
      {{if .Error}}<div class="error">{{.Error}}</div>{{else}}{{.Cards}}{{end}}
    </section>
  </main>
{{template "foot" .}}`

// detailTemplate renders a single post.
const detailTemplate = `{{template "head" .}}
  <main class="wrap post">
    <a class="back" href="{{.BackHref}}">← All posts</a>
    <article>
      {{if .Post.Slug}}
      <header class="postHead">
        <div class="cardTop">
          <span id="postCategory" class="pill">{{.Post.Category}}</span>
          <span id="postDate" class="date">{{.DisplayDate}}</span>
        </div>
        <h1 id="postTitle">{{.Post.Title}}</h1>
        <p id="postExcerpt" class="excerpt">{{.Post.Excerpt}}</p>
        {{if .Post.Tags}}<ul class="tags">{{range .Post.Tags}}<li>{{.}}</li>{{end}}</ul>{{end}}
      </header>
      {{end}}
      <div id="postBody" class="body">
        {{if .Error}}<div class="error">{{.Error}}</div>{{else}}{{.Body}}{{end}}
      </div>
    </article>
  </main>
{{template "foot" .}}`

// cssContent is the stylesheet for every page.
const cssContent = `:root {
  --bg: #05060a;
  --panel: rgba(255, 255, 255, 0.04);
  --panel-hover: rgba(255, 255, 255, 0.07);
  --border: rgba(255, 255, 255, 0.08);
  --text: #e8e9ee;
  --muted: #8b8f9c;
  --accent: #cfd3ff;
  --error: #ffb4b4;
  --radius: 14px;
  --max-width: 1080px;
}

* { box-sizing: border-box; }

html, body {
  margin: 0;
  min-height: 100%;
  color: var(--text);
  font: 16px/1.6 -apple-system, BlinkMacSystemFont, "Segoe UI", Inter, sans-serif;
}

body {
  background: var(--bg) url("background.png") center / cover fixed no-repeat;
}

a { color: inherit; text-decoration: none; }

.top, .foot, .wrap {
  max-width: var(--max-width);
  margin: 0 auto;
  padding: 24px;
}

.brand {
  font-weight: 700;
  letter-spacing: 0.08em;
  text-transform: uppercase;
}

.foot { color: var(--muted); font-size: 13px; }

.controls {
  display: flex;
  flex-wrap: wrap;
  gap: 16px;
  align-items: center;
  justify-content: space-between;
  margin-bottom: 24px;
}

.filters { display: flex; flex-wrap: wrap; gap: 8px; }

.filter {
  padding: 6px 14px;
  border: 1px solid var(--border);
  border-radius: 999px;
  color: var(--muted);
  font-size: 14px;
}

.filter:hover { color: var(--text); }
.filter.active { color: var(--bg); background: var(--accent); border-color: var(--accent); }

.search input {
  width: 260px;
  padding: 8px 14px;
  color: var(--text);
  background: var(--panel);
  border: 1px solid var(--border);
  border-radius: 999px;
  outline: none;
}

.grid {
  display: grid;
  grid-template-columns: repeat(auto-fill, minmax(300px, 1fr));
  gap: 16px;
}

.card {
  display: flex;
  flex-direction: column;
  gap: 8px;
  padding: 20px;
  background: var(--panel);
  border: 1px solid var(--border);
  border-radius: var(--radius);
  transition: background 0.2s ease, transform 0.2s ease;
}

.card:hover { background: var(--panel-hover); transform: translateY(-2px); }
.card h3 { margin: 0; font-size: 19px; }
.card p { margin: 0; color: var(--muted); }

.cardTop { display: flex; justify-content: space-between; align-items: center; font-size: 13px; }
.cardBottom { margin-top: auto; font-size: 14px; color: var(--accent); }

.pill {
  padding: 2px 10px;
  border: 1px solid var(--border);
  border-radius: 999px;
  text-transform: uppercase;
  letter-spacing: 0.06em;
  font-size: 11px;
}

.date { color: var(--muted); }

.error { color: var(--error); }

.post { max-width: 760px; }
.back { color: var(--muted); font-size: 14px; }
.postHead h1 { margin: 12px 0 4px; font-size: 36px; line-height: 1.2; }
.excerpt { color: var(--muted); margin-top: 0; }

.tags { display: flex; gap: 8px; padding: 0; list-style: none; font-size: 13px; color: var(--muted); }
.tags li::before { content: "#"; }

.body pre {
  padding: 16px;
  overflow-x: auto;
  border-radius: 10px;
  border: 1px solid var(--border);
}

.body code { font-family: "JetBrains Mono", ui-monospace, monospace; font-size: 14px; }
.body img { max-width: 100%; border-radius: 10px; }
.body a { color: var(--accent); text-decoration: underline; }

@media (max-width: 640px) {
  .search input { width: 100%; }
  .postHead h1 { font-size: 28px; }
}
`
