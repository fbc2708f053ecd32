package dashboard

// indexTemplate is the single dashboard page: season picker, the two
// summary-level dropdowns, the trigger button and the last-run panel.
const indexTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>NFL Data Refresh</title>
<style>
  body { font-family: sans-serif; max-width: 44rem; margin: 2rem auto; padding: 0 1rem; }
  label { display: block; margin-top: 1rem; font-weight: bold; }
  select, button { margin-top: .25rem; font-size: 1rem; }
  button { padding: .5rem 1.5rem; }
  .error { color: #b00020; margin-top: 1rem; }
  .ok { color: #1b5e20; margin-top: 1rem; }
  pre { background: #f5f5f5; padding: .75rem; overflow-x: auto; }
  table { border-collapse: collapse; margin-top: .5rem; }
  th, td { border: 1px solid #ccc; padding: .25rem .5rem; text-align: left; }
</style>
</head>
<body>
<h1>NFL Data Refresh Dashboard</h1>
<p>Manually trigger the SQLite export ({{.DBPath}}) without waiting for the scheduled run.</p>

{{if .Error}}<p class="error">{{.Error}}</p>{{end}}
{{if .Running}}<p>Refresh in progress&hellip; this may take a minute.</p>{{end}}

<form method="post" action="/run">
  <label for="season">Seasons to refresh</label>
  <select id="season" name="season" multiple size="8">
    {{$current := .CurrentSeason}}
    {{range .SeasonOptions}}<option value="{{.}}" {{if eq . $current}}selected{{end}}>{{.}}</option>
    {{end}}
  </select>

  <label for="summary_level">Team stats summary level</label>
  <select id="summary_level" name="summary_level">
    {{range .SummaryLevels}}<option value="{{.}}" {{if eq . "reg"}}selected{{end}}>{{.}}</option>{{end}}
  </select>

  <label for="advstats_summary">Advanced stats summary level</label>
  <select id="advstats_summary" name="advstats_summary">
    {{range .AdvstatsSummaries}}<option value="{{.}}" {{if eq . "week"}}selected{{end}}>{{.}}</option>{{end}}
  </select>

  <p><button type="submit" {{if .Running}}disabled{{end}}>Refresh Data</button></p>
</form>

{{with .Last}}
<hr>
{{if .Result.Succeeded}}
  <p class="ok">Refresh completed successfully in {{.Result.Duration}}.</p>
{{else}}
  <p class="error">Exporter exited with code {{.Result.ExitCode}}.
  {{if .Result.StartError}}({{.Result.StartError}}){{end}}</p>
{{end}}
<details {{if not .Result.Succeeded}}open{{end}}>
  <summary>Show exporter output</summary>
  {{if .Result.Stdout}}<h3>stdout</h3><pre>{{.Result.Stdout}}</pre>{{end}}
  {{if .Result.Stderr}}<h3>stderr</h3><pre>{{.Result.Stderr}}</pre>{{end}}
</details>
{{end}}

{{if .Ledger}}
<hr>
<h2>Recently ingested</h2>
<table>
  <tr><th>Table</th><th>Season</th><th>Summary</th><th>Ingested at</th></tr>
  {{range .Ledger}}
  <tr>
    <td>{{.TableName}}</td>
    <td>{{.Season}}</td>
    <td>{{if .SummaryLevel.Valid}}{{.SummaryLevel.String}}{{end}}</td>
    <td>{{.IngestedAt}}</td>
  </tr>
  {{end}}
</table>
{{end}}
</body>
</html>
`
