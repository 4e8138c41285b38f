/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: templates.go
Description: HTML template for the learning report.
*/

package render

// reportTemplate renders a reportView
const reportTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>{{.Title}} - Automator Report</title>
    <script src="https://cdn.jsdelivr.net/npm/chart.js"></script>
    <script src="https://cdn.jsdelivr.net/npm/@viz-js/viz@3/lib/viz-standalone.js"></script>
    <style>
        * { margin: 0; padding: 0; box-sizing: border-box; }

        body {
            font-family: 'Segoe UI', Tahoma, Geneva, Verdana, sans-serif;
            background: linear-gradient(135deg, #0d2f39 0%, #157483 100%);
            min-height: 100vh;
            color: #333;
        }

        .container { max-width: 1200px; margin: 0 auto; padding: 20px; }

        .card {
            background: rgba(255, 255, 255, 0.95);
            border-radius: 15px;
            padding: 25px;
            margin-bottom: 25px;
            box-shadow: 0 8px 32px rgba(0, 0, 0, 0.1);
        }

        .header { text-align: center; }
        .header h1 { color: #104855; font-size: 2.2rem; margin-bottom: 10px; }
        .header p { color: #718096; }

        .stats-grid {
            display: grid;
            grid-template-columns: repeat(auto-fit, minmax(180px, 1fr));
            gap: 15px;
        }

        .stat { text-align: center; }
        .stat .value { font-size: 2rem; font-weight: 700; color: #16858e; }
        .stat .label { color: #718096; font-size: 0.9rem; }

        h2 { color: #104855; margin-bottom: 15px; }

        table { border-collapse: collapse; width: 100%; }
        th, td { border: 1px solid #e2e8f0; padding: 6px 10px; text-align: center; }
        th { background: #edf2f7; }
        tr.separator td { background: #f7fafc; height: 4px; padding: 0; }
        td.yes { color: #16858e; font-weight: 700; }
        td.no { color: #a0aec0; }
        tr.accepting td.state { font-weight: 700; color: #16858e; }

        pre { background: #1a202c; color: #e2e8f0; padding: 15px; border-radius: 8px; overflow-x: auto; }
        ul.words { list-style: none; display: flex; flex-wrap: wrap; gap: 8px; }
        ul.words li { background: #e6fffa; border-radius: 6px; padding: 4px 10px; font-family: monospace; }
    </style>
</head>
<body>
<div class="container">
    <div class="card header">
        <h1>{{.Title}}</h1>
        <p>Generated {{.GeneratedAt.Format "2006-01-02 15:04:05"}}{{if .SessionID}} · session <code id="session">{{.SessionID}}</code>{{end}}{{if .Target}} · target <code id="target">{{.Target}}</code>{{end}}</p>
        <p>Alphabet: {{range $i, $a := .Alphabet}}{{if $i}}, {{end}}<code class="symbol">{{$a}}</code>{{end}}</p>
    </div>

    {{with .Stats}}
    <div class="card">
        <h2>Session</h2>
        <div class="stats-grid" id="stats">
            <div class="stat"><div class="value" id="stat-rounds">{{.Rounds}}</div><div class="label">Rounds</div></div>
            <div class="stat"><div class="value" id="stat-hypotheses">{{.Hypotheses}}</div><div class="label">Hypotheses</div></div>
            <div class="stat"><div class="value" id="stat-counterexamples">{{.Counterexamples}}</div><div class="label">Counterexamples</div></div>
            <div class="stat"><div class="value" id="stat-membership">{{.MembershipQueries}}</div><div class="label">Membership queries</div></div>
            <div class="stat"><div class="value" id="stat-cache">{{.CacheHits}}</div><div class="label">Cache hits</div></div>
            <div class="stat"><div class="value" id="stat-elapsed">{{.Elapsed}}</div><div class="label">Elapsed</div></div>
        </div>
    </div>
    {{end}}

    <div class="card">
        <h2>Automaton ({{len .States}} states)</h2>
        <div id="graph"></div>
        <table id="states">
            <thead>
                <tr><th>State</th><th>Access word</th><th>Accepting</th>{{range .Alphabet}}<th>{{.}}</th>{{end}}</tr>
            </thead>
            <tbody>
                {{range .States}}
                <tr class="{{if .Accepting}}accepting{{end}}{{if .Initial}} initial{{end}}" data-state="{{.Name}}">
                    <td class="state">{{if .Initial}}→ {{end}}{{.Name}}</td>
                    <td>{{.Access}}</td>
                    <td>{{if .Accepting}}yes{{else}}no{{end}}</td>
                    {{range .Next}}<td class="next">{{.}}</td>{{end}}
                </tr>
                {{end}}
            </tbody>
        </table>
    </div>

    <div class="card">
        <h2>Accepted words up to length {{.AcceptedLength}}</h2>
        <ul class="words" id="accepted">
            {{range .Accepted}}<li>{{.}}</li>{{end}}
        </ul>
    </div>

    {{if .Suffixes}}
    <div class="card">
        <h2>Observation table</h2>
        <table id="observation">
            <thead>
                <tr><th>T</th>{{range .Suffixes}}<th>{{.}}</th>{{end}}</tr>
            </thead>
            <tbody>
                {{range .PrefixRows}}
                <tr class="prefix"><th>{{.Word}}</th>{{range .Cells}}<td class="{{if .}}yes{{else}}no{{end}}">{{if .}}1{{else}}0{{end}}</td>{{end}}</tr>
                {{end}}
                <tr class="separator"><td colspan="{{len .Suffixes}}"></td><td></td></tr>
                {{range .ExtensionRows}}
                <tr class="extension"><th>{{.Word}}</th>{{range .Cells}}<td class="{{if .}}yes{{else}}no{{end}}">{{if .}}1{{else}}0{{end}}</td>{{end}}</tr>
                {{end}}
            </tbody>
        </table>
    </div>
    {{end}}

    {{if .History}}
    <div class="card">
        <h2>Hypotheses</h2>
        <canvas id="historyChart" height="80"></canvas>
    </div>
    {{end}}

    <div class="card">
        <h2>DOT</h2>
        <pre id="dot">{{.DOT}}</pre>
    </div>

    <div class="card">
        <h2>Mermaid</h2>
        <pre id="mermaid">{{.Mermaid}}</pre>
    </div>
</div>

<script>
    const dot = {{.DOT}};
    if (window.Viz) {
        Viz.instance().then(function(viz) {
            document.getElementById('graph').appendChild(viz.renderSVGElement(dot));
        }).catch(function(err) { console.error(err); });
    }
    {{if .History}}
    const history = {{.History}};
    if (window.Chart) {
        new Chart(document.getElementById('historyChart'), {
            type: 'line',
            data: {
                labels: history.map(function(_, i) { return 'H' + (i + 1); }),
                datasets: [{ label: 'States', data: history, borderColor: '#20B9B4', tension: 0.2 }]
            },
            options: { scales: { y: { beginAtZero: true, ticks: { precision: 0 } } } }
        });
    }
    {{end}}
</script>
</body>
</html>
`
