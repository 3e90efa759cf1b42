package dashboard

import "net/http"

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(indexHTML))
}

const indexHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>QuantMarketLab</title>
<style>
body { font-family: sans-serif; margin: 2em auto; max-width: 960px; color: #212529; }
h1 { font-size: 1.4em; }
label { margin-right: 0.5em; }
select, input, button { padding: 0.3em; margin-right: 1em; }
table { border-collapse: collapse; margin-top: 1em; }
th, td { border: 1px solid #adb5bd; padding: 0.3em 0.8em; text-align: right; }
th:first-child, td:first-child { text-align: left; }
.up { color: #2ca02c; }
.down { color: #d62728; }
#status { margin-top: 1em; color: #6c757d; }
</style>
</head>
<body>
<h1>QuantMarketLab daily direction dashboard</h1>
<div>
<label for="asset">Asset</label><select id="asset"></select>
<label for="start">Start</label><input id="start" type="date">
<label for="end">End</label><input id="end" type="date">
<button onclick="analyze()">Analyze</button>
</div>
<div id="status"></div>
<div id="summary"></div>
<div id="dist"></div>
<script>
async function loadAssets() {
  const res = await fetch('/api/assets');
  const assets = await res.json();
  const sel = document.getElementById('asset');
  for (const a of assets) {
    const opt = document.createElement('option');
    opt.value = a.name;
    opt.textContent = a.rows ? a.name + ' (' + a.first_date + ' to ' + a.last_date + ')' : a.name + ' (no data)';
    sel.appendChild(opt);
  }
}
async function analyze() {
  const status = document.getElementById('status');
  const params = new URLSearchParams({asset: document.getElementById('asset').value});
  const start = document.getElementById('start').value;
  const end = document.getElementById('end').value;
  if (start) params.set('start', start);
  if (end) params.set('end', end);
  status.textContent = 'Running...';
  const res = await fetch('/api/analyze?' + params);
  const body = await res.json();
  if (!res.ok) { status.textContent = body.error; return; }
  if (body.no_data) {
    status.textContent = 'No data in the selected window.';
    document.getElementById('summary').innerHTML = '';
    document.getElementById('dist').innerHTML = '';
    return;
  }
  status.textContent = 'Period ' + body.period_label;
  const s = body.summary;
  document.getElementById('summary').innerHTML =
    '<table><tr><th>Metric</th><th>Value</th></tr>' +
    '<tr><td>Analyzed period</td><td>' + s.actual_start_date + ' to ' + s.actual_end_date + '</td></tr>' +
    '<tr><td>Total days</td><td>' + s.total_days + '</td></tr>' +
    '<tr><td class="up">UP days</td><td>' + s.up_days + ' (' + s.up_pct.toFixed(2) + '%)</td></tr>' +
    '<tr><td class="down">DOWN days</td><td>' + s.down_days + ' (' + s.down_pct.toFixed(2) + '%)</td></tr>' +
    '<tr><td>Break Even days</td><td>' + s.break_even_days + ' (' + s.break_even_pct.toFixed(2) + '%)</td></tr>' +
    '<tr><td class="up">Total UP points</td><td>' + s.total_up_points.toFixed(s.point_decimals) + '</td></tr>' +
    '<tr><td class="down">Total DOWN points</td><td>' + s.total_down_points.toFixed(s.point_decimals) + '</td></tr>' +
    '<tr><td>Net points</td><td>' + s.net_points.toFixed(s.point_decimals) + '</td></tr>' +
    '<tr><td>Longest UP streak</td><td>' + s.longest_up_streak + '</td></tr>' +
    '<tr><td>Longest DOWN streak</td><td>' + s.longest_down_streak + '</td></tr>' +
    '<tr><td>Longest Break Even streak</td><td>' + s.longest_break_even_streak + '</td></tr>' +
    '</table>';
  let rows = '<table><tr><th>Day</th><th>UP</th><th>DOWN</th><th>Break Even</th></tr>';
  for (const d of body.distribution || []) {
    rows += '<tr><td>' + d.day + '</td><td>' + d.up + '</td><td>' + d.down + '</td><td>' + d.break_even + '</td></tr>';
  }
  document.getElementById('dist').innerHTML = rows + '</table>';
}
loadAssets();
</script>
</body>
</html>
`
