package report

// pageTemplate is the single-page snapshot. Region fragments arrive
// pre-escaped from the render package and are injected as-is; scalar
// values go through the template engine's own escaping.
const pageTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>lakedash report</title>
<style>
  body { font-family: -apple-system, "Segoe UI", Roboto, sans-serif; margin: 2rem auto; max-width: 1100px; color: #1f2430; }
  h1 { font-size: 1.4rem; }
  h2 { font-size: 1.05rem; border-bottom: 1px solid #d8dce6; padding-bottom: .3rem; }
  .meta { color: #6b7280; font-size: .85rem; }
  .region { margin-bottom: 2rem; }
  .error { background: #fdf2f2; border: 1px solid #e6b3b3; color: #8a1f1f; padding: .6rem .8rem; border-radius: 4px; }
  .muted { color: #6b7280; }
  dl { display: grid; grid-template-columns: 12rem 1fr; gap: .25rem .75rem; }
  dt { color: #6b7280; }
  dd { margin: 0; }
  table { border-collapse: collapse; font-size: .85rem; width: 100%; }
  th, td { border: 1px solid #d8dce6; padding: .3rem .5rem; text-align: left; white-space: nowrap; max-width: 22rem; overflow: hidden; text-overflow: ellipsis; }
  th { background: #f3f4f6; }
  .bar { background: #e5e7eb; border-radius: 3px; height: 6px; margin: .4rem 0; }
  .bar-fill { background: #3b82f6; border-radius: 3px; height: 6px; }
  .ok { color: #15803d; font-weight: 600; }
  .not-ok { color: #b91c1c; font-weight: 600; }
  pre { background: #f8f9fb; border: 1px solid #e5e7eb; padding: .6rem; overflow-x: auto; font-size: .8rem; }
  details summary { cursor: pointer; color: #6b7280; font-size: .85rem; }
</style>
</head>
<body>
<h1>lakedash report</h1>
<p class="meta">Generated {{.GeneratedAt.Format "2006-01-02 15:04:05 MST"}} &middot; backend {{.BackendURL}}</p>

<div class="region">
<h2>Current user</h2>
{{- if .Identity.Err}}
<div class="error">{{.Identity.Err}}</div>
{{- else}}
<dl>
  <dt>App mode</dt><dd>{{.Identity.Mode}}</dd>
  <dt>User name</dt><dd>{{.Identity.UserName}}</dd>
  <dt>Display name</dt><dd>{{.Identity.DisplayName}}</dd>
  <dt>Active</dt><dd>{{.Identity.Active}}</dd>
</dl>
<details><summary>Raw response</summary><pre>{{.Identity.Raw}}</pre></details>
{{- end}}
</div>

<div class="region">
<h2>Warehouse health</h2>
{{.Health.Bar}}
{{- if .Health.Err}}
<div class="error">{{.Health.Err}}</div>
{{- else}}
<p>Status: {{if .Health.OK}}<span class="ok">OK</span>{{else}}<span class="not-ok">Not OK</span>{{end}}
{{- if .Health.Latency}} &middot; query {{.Health.Latency}}{{end}}</p>
{{- if .Health.Detail}}
<div class="error">{{.Health.Detail}}</div>
{{- end}}
<details><summary>Raw response</summary><pre>{{.Health.Raw}}</pre></details>
{{- end}}
</div>

<div class="region">
<h2>Email preview</h2>
{{.Emails.Bar}}
{{- if .Emails.Err}}
<div class="error">{{.Emails.Err}}</div>
{{- else}}
<p>{{.Emails.Count}} rows &middot; query {{.Emails.QueryMS}} &middot; serialize {{.Emails.SerializeMS}} &middot; total {{.Emails.TotalMS}}</p>
{{.Emails.Table}}
<details><summary>Raw response</summary><pre>{{.Emails.Raw}}</pre></details>
{{- end}}
</div>

</body>
</html>
`
