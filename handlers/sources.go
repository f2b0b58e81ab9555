package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/tdempsey/RainbowRead250813/services"
	"github.com/tdempsey/RainbowRead250813/storage"
)

type SourceHandlers struct {
	store       *storage.MemStorage
	rssService  *services.RssService
	opmlService *services.OpmlService
}

func NewSourceHandlers(store *storage.MemStorage, rssService *services.RssService, opmlService *services.OpmlService) *SourceHandlers {
	return &SourceHandlers{
		store:       store,
		rssService:  rssService,
		opmlService: opmlService,
	}
}

func (sh *SourceHandlers) GetSources(w http.ResponseWriter, r *http.Request) {
	writeData(w, http.StatusOK, sh.store.GetRssSources())
}

func (sh *SourceHandlers) CreateSource(w http.ResponseWriter, r *http.Request) {
	var input storage.RssSourceInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeJSON(w, http.StatusBadRequest, APIResponse{Success: false, Error: "Invalid JSON"})
		return
	}

	source, err := sh.store.CreateRssSource(input)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusCreated, source)
}

func (sh *SourceHandlers) UpdateSource(w http.ResponseWriter, r *http.Request) {
	var upd storage.RssSourceUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		writeJSON(w, http.StatusBadRequest, APIResponse{Success: false, Error: "Invalid JSON"})
		return
	}

	source, err := sh.store.UpdateRssSource(mux.Vars(r)["id"], upd)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, source)
}

func (sh *SourceHandlers) DeleteSource(w http.ResponseWriter, r *http.Request) {
	if err := sh.store.DeleteRssSource(mux.Vars(r)["id"]); err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, map[string]string{"message": "Source deleted"})
}

// RefreshSource fetches one source synchronously and reports how many new
// articles it produced.
func (sh *SourceHandlers) RefreshSource(w http.ResponseWriter, r *http.Request) {
	source, err := sh.store.GetRssSourceByID(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}

	count, err := sh.rssService.FetchSource(source)
	if err != nil {
		writeJSON(w, http.StatusBadGateway, APIResponse{Success: false, Error: err.Error()})
		return
	}
	writeData(w, http.StatusOK, map[string]int{"count": count})
}

// RefreshAll kicks off a full refresh of RSS sources in the background.
func (sh *SourceHandlers) RefreshAll(w http.ResponseWriter, r *http.Request) {
	go sh.rssService.FetchAllSources()
	writeData(w, http.StatusOK, map[string]string{"message": "Content refresh triggered"})
}

// ImportOPML accepts an OPML document body and imports its feeds as
// sources.
func (sh *SourceHandlers) ImportOPML(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil || len(body) == 0 {
		writeJSON(w, http.StatusBadRequest, APIResponse{Success: false, Error: "OPML body required"})
		return
	}

	result, err := sh.opmlService.ImportOPML(body)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, APIResponse{Success: false, Error: err.Error()})
		return
	}
	writeData(w, http.StatusOK, result)
}
