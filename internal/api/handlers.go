package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"cetaksoal/domain/exam"
	"cetaksoal/internal/errors"
	"cetaksoal/internal/layout"
	"cetaksoal/internal/markup"
	"cetaksoal/internal/state"
)

// multipart framing allowance on top of the file limit
const multipartOverhead = 1 << 20

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func (a *API) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch errors.GetCode(err) {
	case errors.CodeImportFailed:
		status = http.StatusUnprocessableEntity
	case errors.CodeInvalidInput:
		status = http.StatusBadRequest
	case errors.CodeNotFound:
		status = http.StatusNotFound
	}
	if status == http.StatusInternalServerError {
		a.logger.Error("request failed: %v", err)
	}
	writeJSON(w, status, errorBody{Error: errorDetail{
		Code:    errors.GetCode(err),
		Message: errors.UserMessage(err),
	}})
}

func decodeJSON(r *http.Request, v interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		return errors.InvalidInput(fmt.Sprintf("invalid JSON body: %v", err))
	}
	return nil
}

func (a *API) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleImport reads a multipart "file" field and returns the mapped questions
func (a *API) handleImport(w http.ResponseWriter, r *http.Request) {
	if a.config.MaxUploadBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, a.config.MaxUploadBytes+multipartOverhead)
	}
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		a.writeError(w, errors.ImportFailed(err))
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		a.writeError(w, errors.InvalidInput("multipart field \"file\" is required"))
		return
	}
	defer file.Close()

	result, err := a.importer.Import(r.Context(), header.Filename, file)
	if err != nil {
		a.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (a *API) handleImports(w http.ResponseWriter, r *http.Request) {
	limit := a.config.LedgerLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			a.writeError(w, errors.InvalidInput("limit must be a positive integer"))
			return
		}
		limit = n
	}

	events, err := a.importer.Recent(r.Context(), limit)
	if err != nil {
		a.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"imports": events})
}

type mapRequest struct {
	Records []map[string]interface{} `json:"records"`
}

// handleMap runs the row mapper over already-parsed rows. Numbers and
// booleans are stringified the way a cell would read, null means absent.
func (a *API) handleMap(w http.ResponseWriter, r *http.Request) {
	var req mapRequest
	if err := decodeJSON(r, &req); err != nil {
		a.writeError(w, err)
		return
	}

	records := make([]exam.Record, 0, len(req.Records))
	for i, raw := range req.Records {
		rec, err := toRecord(raw)
		if err != nil {
			a.writeError(w, errors.InvalidInput(fmt.Sprintf("record %d: %v", i, err)))
			return
		}
		records = append(records, rec)
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"questions": exam.MapRecords(records)})
}

func toRecord(raw map[string]interface{}) (exam.Record, error) {
	rec := make(exam.Record, len(raw))
	for k, v := range raw {
		switch val := v.(type) {
		case nil:
		case string:
			rec[k] = val
		case json.Number:
			rec[k] = val.String()
		case bool:
			rec[k] = strconv.FormatBool(val)
		default:
			return nil, fmt.Errorf("column %q must be a scalar", k)
		}
	}
	return rec, nil
}

func (a *API) handleFormat(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text string `json:"text"`
	}
	if err := decodeJSON(r, &req); err != nil {
		a.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"html": markup.Format(req.Text)})
}

func (a *API) handleLayout(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Question exam.Question `json:"question"`
	}
	if err := decodeJSON(r, &req); err != nil {
		a.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, layout.Select(req.Question))
}

type renderRequest struct {
	Questions []exam.Question  `json:"questions"`
	Header    *exam.HeaderInfo `json:"header"`
	Settings  json.RawMessage  `json:"settings"`
}

// handleRender returns a standalone printable document
func (a *API) handleRender(w http.ResponseWriter, r *http.Request) {
	var req renderRequest
	if err := decodeJSON(r, &req); err != nil {
		a.writeError(w, err)
		return
	}

	snap := state.Snapshot{
		Questions: req.Questions,
		Header:    a.config.Header,
		Settings:  a.config.Settings,
	}
	if req.Header != nil {
		snap.Header = snap.Header.Merge(*req.Header)
	}
	// fields the request leaves out keep their configured defaults
	if len(req.Settings) > 0 {
		if err := json.Unmarshal(req.Settings, &snap.Settings); err != nil {
			a.writeError(w, errors.InvalidInput(fmt.Sprintf("invalid settings: %v", err)))
			return
		}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := a.renderer.Document(w, snap); err != nil {
		a.writeError(w, errors.Wrap(err, "failed to render document"))
	}
}
