package web

import (
	"html/template"
	"net/http"

	"github.com/orabaiah/buzzerd/internal/logger"
)

// pageTemplate renders the single control page: one toggle per output,
// the alarm list form and the timer form, plus a script polling
// /status. Markup is deliberately plain; the page is served to the
// local network only.
var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html>
<head>
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<style>
body{font-family:Arial,sans-serif;color:#444;text-align:center;margin:0;padding:0 10px;}
.title{font-size:28px;font-weight:bold;letter-spacing:2px;margin:40px 0 20px;}
.section{margin-top:30px;padding-bottom:20px;border-bottom:1px solid #eee;}
.section-title{font-size:20px;margin-bottom:12px;}
.btn{margin-top:10px;padding:10px 16px;font-size:16px;background-color:#4285f4;border:none;color:white;border-radius:10px;cursor:pointer;}
.btn.red{background-color:#e53935;}
.small-btn{padding:6px 10px;font-size:14px;background-color:#e53935;border:none;color:white;border-radius:8px;cursor:pointer;}
.timer-input{width:70px;font-size:18px;padding:8px;border:1px solid #ccc;border-radius:8px;margin:6px;}
.alarm-item{margin:6px 0;display:flex;gap:8px;align-items:center;justify-content:center;}
.output{font-size:20px;margin:12px 0;}
.output a{margin-left:12px;}
</style>
</head>
<body>
<h1 class="title">BUZZER CONTROLLER</h1>

{{range .Outputs}}
<div class="output">{{.Name}}: <b>{{if .On}}ON{{else}}OFF{{end}}</b>
{{if .On}}<a href="/{{.Name}}off">turn off</a>{{else}}<a href="/{{.Name}}on">turn on</a>{{end}}
</div>
{{end}}

<div class="section"><div class="section-title">Alarms</div>
<form id="alarmsForm" action="/setAlarms" method="GET">
<div id="alarmList">
{{range $i, $a := .Alarms}}
<div class="alarm-item"><input type="time" name="alarm{{$i}}" value="{{$a}}" required>
<button type="button" class="small-btn" onclick="removeAlarm({{$i}})">Delete</button></div>
{{else}}
<div class="alarm-item"><input type="time" name="alarm0" required>
<button type="button" class="small-btn" onclick="removeAlarm(0)">Delete</button></div>
{{end}}
</div>
<button type="button" class="btn" onclick="addAlarm()">Add Alarm</button>
<button type="submit" class="btn">Save Alarms</button>
<button type="button" class="btn red" onclick="clearAlarms()">Clear All</button>
</form></div>

<div class="section"><div class="section-title">Timer (rings buzzer)</div>
<form action="/startTimer" method="GET">
<input type="number" name="hours" class="timer-input" placeholder="HH" min="0">
<input type="number" name="minutes" class="timer-input" placeholder="MM" min="0">
<input type="number" name="seconds" class="timer-input" placeholder="SS" min="0"><br>
<button type="submit" class="btn">Start Timer</button></form>
<form action="/stopTimer" method="GET" style="margin-top:8px;"><button type="submit" class="btn red">Stop Timer</button></form>
<div style="margin-top:16px;font-size:16px;" id="statusArea"></div>
</div>

<script>
function addAlarm(){var list=document.getElementById('alarmList');var idx=list.children.length;var div=document.createElement('div');div.className='alarm-item';var input=document.createElement('input');input.type='time';input.name='alarm'+idx;input.required=true;div.appendChild(input);var btn=document.createElement('button');btn.type='button';btn.className='small-btn';btn.textContent='Delete';btn.onclick=function(){removeAlarm(idx);};div.appendChild(btn);list.appendChild(div);}
function removeAlarm(i){var list=document.getElementById('alarmList');if(list.children[i]){list.removeChild(list.children[i]);}renumberAlarms();}
function renumberAlarms(){var list=document.getElementById('alarmList');for(var i=0;i<list.children.length;i++){var item=list.children[i];item.querySelector('input').name='alarm'+i;var btn=item.querySelector('button');btn.onclick=(function(idx){return function(){removeAlarm(idx);};})(i);}}
function clearAlarms(){fetch('/clearAlarms').then(()=>location.reload());}
function fetchStatus(){fetch('/status').then(r=>r.json()).then(j=>{var s=document.getElementById('statusArea');s.innerHTML='Timer: '+(j.timerRunning?('running, '+j.remainingSeconds+'s left'):'stopped')+'<br>Alarms stored: '+j.alarmCount;}).catch(e=>{});}
setInterval(fetchStatus,2000);fetchStatus();
</script>
</body>
</html>
`))

// pageData feeds pageTemplate.
type pageData struct {
	Outputs []pageOutput
	Alarms  []string
}

type pageOutput struct {
	Name string
	On   bool
}

func pageHandler(engine Controller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := engine.Status()

		data := pageData{
			Outputs: make([]pageOutput, 0, len(status.Outputs)),
			Alarms:  make([]string, 0, status.AlarmCount),
		}

		// Preserve configured display order; the snapshot map is unordered.
		for _, name := range engine.OutputNames() {
			data.Outputs = append(data.Outputs, pageOutput{Name: name, On: status.Outputs[name]})
		}

		for _, alarm := range engine.Alarms() {
			data.Alarms = append(data.Alarms, alarm.String())
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")

		if err := pageTemplate.Execute(w, data); err != nil {
			logger.ErrorKV(r.Context(), "Failed to render control page", "error", err)
		}
	}
}
