/*
pages.go - Server-rendered surfaces

PURPOSE:
  Renders the trip submission form, the client-list editing grid, and the
  all-trips report. These surfaces are pure consumers: they call the
  operation endpoints and render results, carrying no business logic.

NAVIGATION POLICY:
  Driver and logistic manager principals are barred from the
  administrative area entirely: /admin redirects them away before any
  content is considered.
*/
package api

import (
	"html/template"
	"log"
	"net/http"
	"time"

	"github.com/warp/tripboard/auth"
)

const baseTemplate = `<!DOCTYPE html>
<html>
<head>
<title>{{.Title}} - Trip Board</title>
<style>
  body { font-family: system-ui; max-width: 1100px; margin: 0 auto; padding: 16px; }
  .card { background: #fff; border: 1px solid #eee; border-radius: 12px; padding: 16px; }
  .title { margin: 0 0 12px; font-size: 1.2rem; font-weight: 700; }
  .muted { opacity: .75; }
  form p { margin: 0 0 14px; }
  label { display: block; font-weight: 600; margin-bottom: 6px; }
  input, select { width: 100%; padding: 10px; border: 1px solid #dcdcdc; border-radius: 8px; box-sizing: border-box; }
  input[readonly] { background: #fafafa; }
  button, input[type=submit] { width: auto; padding: 10px 16px; border: 0; border-radius: 8px; background: #111; color: #fff; font-weight: 600; cursor: pointer; }
  table { width: 100%; border-collapse: collapse; }
  th, td { padding: 8px; border-bottom: 1px solid #eee; text-align: left; }
  th { background: #fafafa; }
  td input { border: 0; background: transparent; padding: 6px; }
  td input:focus { outline: 2px solid #111; border-radius: 4px; }
</style>
</head>
<body>
<div class="card">
{{template "content" .}}
</div>
</body>
</html>`

const tripFormTemplate = `{{define "content"}}
<h2 class="title">Submit Trip</h2>
<form id="trip-form">
  <input type="hidden" name="nonce" value="{{.Nonce}}">
  <p><label>Date</label>
  <input type="date" name="trip_date" value="{{.Today}}" required></p>
  <p><label>Client List Selection (Route + Client + Unit)</label>
  <select name="master_id" id="master-select" required>
    <option value="">Select...</option>
    {{range .Rows}}
    <option value="{{.ID}}" data-origin="{{.Origin}}" data-destination="{{.Destination}}">
      {{.Origin}} &rarr; {{.Destination}} | {{.Client}} | {{.Unit}}
    </option>
    {{end}}
  </select>
  {{if not .Rows}}<div class="muted">No client list rows yet. Logistic Manager must add them first.</div>{{end}}
  </p>
  <p><label>Origin</label><input type="text" id="origin" readonly required></p>
  <p><label>Destination</label><input type="text" id="destination" readonly required></p>
  <p><label>Weight / Trip</label><input type="number" step="0.01" min="0" name="weight" required></p>
  <p><label>Bill Number</label><input type="text" name="bill_number" required></p>
  <p><input type="submit" value="Submit Trip"></p>
</form>
<script>
(function () {
  var sel = document.getElementById('master-select');
  function sync() {
    var opt = sel.options[sel.selectedIndex];
    document.getElementById('origin').value = (opt && opt.getAttribute('data-origin')) || '';
    document.getElementById('destination').value = (opt && opt.getAttribute('data-destination')) || '';
  }
  sel.addEventListener('change', sync);
  sync();

  document.getElementById('trip-form').addEventListener('submit', function (e) {
    e.preventDefault();
    fetch('/api/trips', { method: 'POST', credentials: 'same-origin', body: new FormData(e.target) })
      .then(function (r) { return r.json(); })
      .then(function (out) {
        if (!out.success) { alert(out.error ? out.error.message : 'Failed to submit trip.'); return; }
        window.location.reload();
      });
  });
})();
</script>
{{end}}`

const clientListTemplate = `{{define "content"}}
<h2 class="title">Client List</h2>
<p class="muted">
  Fill Origin, Destination, Client, Unit (required). Rate optional.
  After save, Routes/Client/Unit are locked; only Rate remains editable.
  Delete is soft-delete (keeps old trip records).
</p>
<table id="client-grid" data-nonce="{{.Nonce}}">
  <thead>
    <tr><th>#</th><th>Origin</th><th>Destination</th><th>Client</th><th>Unit</th><th>Rate</th><th></th></tr>
  </thead>
  <tbody>
    {{range $i, $r := .Rows}}
    <tr data-id="{{$r.ID}}">
      <td>{{inc $i}}</td>
      <td><input type="text" value="{{$r.Origin}}" readonly></td>
      <td><input type="text" value="{{$r.Destination}}" readonly></td>
      <td><input type="text" value="{{$r.Client}}" readonly></td>
      <td><input type="text" value="{{$r.Unit}}" readonly></td>
      <td><input type="number" step="0.01" class="rate" value="{{$r.Rate}}" placeholder="(blank)"></td>
      <td><button type="button" class="del">Del</button></td>
    </tr>
    {{end}}
  </tbody>
</table>
<h3 class="title">Add Row</h3>
<form id="add-row">
  <input type="hidden" name="nonce" value="{{.Nonce}}">
  <p><label>Origin</label><input type="text" name="origin" required></p>
  <p><label>Destination</label><input type="text" name="destination" required></p>
  <p><label>Client</label><input type="text" name="client_name" required></p>
  <p><label>Unit</label><input type="text" name="unit_name" required></p>
  <p><label>Rate (optional)</label><input type="number" step="0.01" name="rate" placeholder="(blank)"></p>
  <p><input type="submit" value="Save Row"></p>
</form>
<script>
(function () {
  var nonce = document.getElementById('client-grid').getAttribute('data-nonce');

  function post(url, params) {
    var fd = new FormData();
    for (var k in params) fd.append(k, params[k]);
    fd.append('nonce', nonce);
    return fetch(url, { method: 'POST', credentials: 'same-origin', body: fd })
      .then(function (r) { return r.json(); });
  }

  document.getElementById('add-row').addEventListener('submit', function (e) {
    e.preventDefault();
    fetch('/api/matrix', { method: 'POST', credentials: 'same-origin', body: new FormData(e.target) })
      .then(function (r) { return r.json(); })
      .then(function (out) {
        if (!out.success) { alert(out.error ? out.error.message : 'Failed to create row.'); return; }
        window.location.reload();
      });
  });

  document.querySelector('#client-grid tbody').addEventListener('click', function (e) {
    if (!e.target.classList.contains('del')) return;
    if (!confirm('Delete this row?')) return;
    var tr = e.target.closest('tr[data-id]');
    post('/api/matrix/' + tr.getAttribute('data-id') + '/delete', {})
      .then(function (out) {
        if (!out.success) { alert(out.error ? out.error.message : 'Failed to delete.'); return; }
        tr.remove();
      });
  });

  function saveRate(input) {
    var tr = input.closest('tr[data-id]');
    post('/api/matrix/' + tr.getAttribute('data-id') + '/rate', { rate: input.value })
      .then(function (out) {
        if (!out.success) { alert(out.error ? out.error.message : 'Failed to save rate.'); return; }
        input.value = out.data.rate || '';
      });
  }

  document.querySelector('#client-grid tbody').addEventListener('keydown', function (e) {
    if (!e.target.classList.contains('rate') || e.key !== 'Enter') return;
    e.preventDefault();
    saveRate(e.target);
    e.target.blur();
  });
  document.querySelector('#client-grid tbody').addEventListener('blur', function (e) {
    if (!e.target.classList.contains('rate')) return;
    saveRate(e.target);
  }, true);
})();
</script>
{{end}}`

const tripsReportTemplate = `{{define "content"}}
<h2 class="title">All Driver Trips</h2>
<p class="muted">Showing latest {{.Limit}} records.</p>
{{if not .Trips}}
<p>No trips recorded yet.</p>
{{else}}
<table>
  <thead>
    <tr><th>Date</th><th>Driver</th><th>Origin</th><th>Destination</th><th>Weight</th><th>Bill No</th></tr>
  </thead>
  <tbody>
    {{range .Trips}}
    <tr>
      <td>{{.Date}}</td>
      <td>{{.UserID}}</td>
      <td>{{.Origin}}</td>
      <td>{{.Destination}}</td>
      <td>{{.Weight}}</td>
      <td>{{.BillNumber}}</td>
    </tr>
    {{end}}
  </tbody>
</table>
{{end}}
{{end}}`

const messageTemplate = `{{define "content"}}
<h2 class="title">{{.Title}}</h2>
<p>{{.Message}}</p>
{{end}}`

var (
	pageFuncs = template.FuncMap{
		"inc": func(i int) int { return i + 1 },
	}

	tripFormPage    = mustPage(tripFormTemplate)
	clientListPage  = mustPage(clientListTemplate)
	tripsReportPage = mustPage(tripsReportTemplate)
	messagePage     = mustPage(messageTemplate)
)

func mustPage(content string) *template.Template {
	t := template.Must(template.New("base").Funcs(pageFuncs).Parse(baseTemplate))
	return template.Must(t.Parse(content))
}

// =============================================================================
// PAGE HANDLERS
// =============================================================================

// TripFormPage renders the driver trip submission form.
func (h *Handler) TripFormPage(w http.ResponseWriter, r *http.Request) {
	principal := principalFrom(r)
	if !principal.Authenticated() {
		h.renderMessage(w, http.StatusForbidden, "Login Required", "Please login to submit a trip.")
		return
	}
	if !principal.Can(auth.PermSubmitTrip) {
		h.renderMessage(w, http.StatusForbidden, "Access Denied", "Access denied.")
		return
	}

	rows, err := h.Matrix.ListSelectable(r.Context())
	if err != nil {
		h.renderMessage(w, http.StatusInternalServerError, "Error", "A storage error occurred; please try again.")
		return
	}

	h.render(w, tripFormPage, map[string]any{
		"Title": "Submit Trip",
		"Rows":  toRowDTOs(rows),
		"Nonce": h.Auth.NonceFor(principal, auth.FamilyTrip),
		"Today": time.Now().Format("2006-01-02"),
	})
}

// ClientListPage renders the editing grid for logistic managers.
func (h *Handler) ClientListPage(w http.ResponseWriter, r *http.Request) {
	principal := principalFrom(r)
	if !principal.Can(auth.PermEditClientList) {
		h.renderMessage(w, http.StatusForbidden, "Access Denied", "Access denied.")
		return
	}

	rows, err := h.Matrix.ListActive(r.Context())
	if err != nil {
		h.renderMessage(w, http.StatusInternalServerError, "Error", "A storage error occurred; please try again.")
		return
	}

	h.render(w, clientListPage, map[string]any{
		"Title": "Client List",
		"Rows":  toRowDTOs(rows),
		"Nonce": h.Auth.NonceFor(principal, auth.FamilyClientList),
	})
}

// TripsReportPage renders the all-trips report.
func (h *Handler) TripsReportPage(w http.ResponseWriter, r *http.Request) {
	principal := principalFrom(r)
	if !principal.Can(auth.PermViewTripReport) {
		h.renderMessage(w, http.StatusForbidden, "Access Denied", "Access denied.")
		return
	}

	trips, err := h.Trips.ListAll(r.Context())
	if err != nil {
		h.renderMessage(w, http.StatusInternalServerError, "Error", "A storage error occurred; please try again.")
		return
	}

	h.render(w, tripsReportPage, map[string]any{
		"Title": "All Driver Trips",
		"Trips": toTripDTOs(trips),
		"Limit": 500,
	})
}

// AdminAreaPage enforces the navigation restriction: drivers go home,
// logistic managers go to the trips report, administrators get through.
func (h *Handler) AdminAreaPage(w http.ResponseWriter, r *http.Request) {
	principal := principalFrom(r)
	switch principal.Role {
	case auth.RoleDriver:
		http.Redirect(w, r, "/", http.StatusSeeOther)
	case auth.RoleLogisticManager:
		http.Redirect(w, r, "/trips", http.StatusSeeOther)
	case auth.RoleAdministrator:
		h.renderMessage(w, http.StatusOK, "Administration", "Administrative area.")
	default:
		h.renderMessage(w, http.StatusForbidden, "Login Required", "Please login.")
	}
}

func (h *Handler) render(w http.ResponseWriter, page *template.Template, data map[string]any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := page.ExecuteTemplate(w, "base", data); err != nil {
		log.Printf("render error: %v", err)
	}
}

func (h *Handler) renderMessage(w http.ResponseWriter, status int, title, message string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := messagePage.ExecuteTemplate(w, "base", map[string]any{
		"Title":   title,
		"Message": message,
	}); err != nil {
		log.Printf("render error: %v", err)
	}
}
