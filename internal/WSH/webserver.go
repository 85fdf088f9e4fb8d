package wsh

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	clH "soccer-memo/internal/clubHandlers"
	"soccer-memo/internal/forms"
	lgH "soccer-memo/internal/leagueHandlers"
	"soccer-memo/internal/listing"
	mtH "soccer-memo/internal/matchHandlers"
	"soccer-memo/internal/models"
	plH "soccer-memo/internal/playerHandlers"
)

// Server exposes the record keeper as a JSON API.
type Server struct {
	Leagues lgH.Handler
	Clubs   clH.Handler
	Players plH.Handler
	Matches mtH.Handler
	Now     func() time.Time
}

type FilterOptions struct {
	Countries []string `json:"countries"`
	Seasons   []string `json:"seasons"`
}

func NewServer(DB *gorm.DB) *Server {
	handler := models.Handler{DB: DB}
	return &Server{
		Leagues: lgH.Handler{Handler: handler},
		Clubs:   clH.Handler{Handler: handler},
		Players: plH.Handler{Handler: handler},
		Matches: mtH.Handler{Handler: handler},
		Now:     time.Now,
	}
}

// Handler returns the routed API wrapped in CORS and request logging.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/leagues", s.ServeLeaguesHandler).Methods(http.MethodGet)
	r.HandleFunc("/leagues", s.ServeSaveLeagueHandler).Methods(http.MethodPost)
	r.HandleFunc("/leagues/filters", s.ServeLeagueFiltersHandler).Methods(http.MethodGet)
	r.HandleFunc("/leagues/{id}", s.ServeLeagueHandler).Methods(http.MethodGet)
	r.HandleFunc("/leagues/{id}", s.ServeSaveLeagueHandler).Methods(http.MethodPut)
	r.HandleFunc("/leagues/{id}", s.ServeDeleteLeagueHandler).Methods(http.MethodDelete)
	r.HandleFunc("/leagues/{id}/standings", s.ServeStandingsHandler).Methods(http.MethodGet)

	r.HandleFunc("/clubs", s.ServeClubsHandler).Methods(http.MethodGet)
	r.HandleFunc("/clubs", s.ServeSaveClubHandler).Methods(http.MethodPost)
	r.HandleFunc("/clubs/{id}", s.ServeClubHandler).Methods(http.MethodGet)
	r.HandleFunc("/clubs/{id}", s.ServeSaveClubHandler).Methods(http.MethodPut)
	r.HandleFunc("/clubs/{id}", s.ServeDeleteClubHandler).Methods(http.MethodDelete)
	r.HandleFunc("/clubs/{id}/stats", s.ServeClubStatsHandler).Methods(http.MethodGet)

	r.HandleFunc("/players", s.ServePlayersHandler).Methods(http.MethodGet)
	r.HandleFunc("/players", s.ServeSavePlayerHandler).Methods(http.MethodPost)
	r.HandleFunc("/players/{id}", s.ServePlayerHandler).Methods(http.MethodGet)
	r.HandleFunc("/players/{id}", s.ServeSavePlayerHandler).Methods(http.MethodPut)
	r.HandleFunc("/players/{id}", s.ServeDeletePlayerHandler).Methods(http.MethodDelete)

	r.HandleFunc("/matches", s.ServeMatchesHandler).Methods(http.MethodGet)
	r.HandleFunc("/matches", s.ServeSaveMatchHandler).Methods(http.MethodPost)
	r.HandleFunc("/matches/{id}", s.ServeMatchHandler).Methods(http.MethodGet)
	r.HandleFunc("/matches/{id}", s.ServeSaveMatchHandler).Methods(http.MethodPut)
	r.HandleFunc("/matches/{id}", s.ServeDeleteMatchHandler).Methods(http.MethodDelete)

	r.Use(logRequests)
	return withCORS(r)
}

func (s *Server) ServeLeaguesHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	leagues, err := s.Leagues.ListLeagues(listing.LeagueQuery{
		Search:  q.Get("search"),
		Country: q.Get("country"),
		Season:  q.Get("season"),
		Sort:    listing.ParseLeagueSort(q.Get("sort")),
	})
	respond(w, http.StatusOK, leagues, err)
}

func (s *Server) ServeLeagueFiltersHandler(w http.ResponseWriter, r *http.Request) {
	countries, seasons, err := s.Leagues.FilterOptions()
	respond(w, http.StatusOK, FilterOptions{Countries: countries, Seasons: seasons}, err)
}

func (s *Server) ServeLeagueHandler(w http.ResponseWriter, r *http.Request) {
	league, err := s.Leagues.GetLeagueByID(mux.Vars(r)["id"])
	respond(w, http.StatusOK, league, err)
}

func (s *Server) ServeStandingsHandler(w http.ResponseWriter, r *http.Request) {
	table, err := s.Leagues.Standings(mux.Vars(r)["id"])
	respond(w, http.StatusOK, table, err)
}

func (s *Server) ServeSaveLeagueHandler(w http.ResponseWriter, r *http.Request) {
	var form forms.LeagueForm
	if !decode(w, r, &form) {
		return
	}
	id := mux.Vars(r)["id"]
	league, err := s.Leagues.SaveLeague(id, form)
	respond(w, savedStatus(id), league, err)
}

func (s *Server) ServeDeleteLeagueHandler(w http.ResponseWriter, r *http.Request) {
	respond(w, http.StatusNoContent, nil, s.Leagues.DeleteLeague(mux.Vars(r)["id"]))
}

func (s *Server) ServeClubsHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	rows, err := s.Clubs.ListClubs(listing.ClubQuery{
		Search:    q.Get("search"),
		Country:   q.Get("country"),
		LeagueID:  q.Get("league"),
		Sort:      listing.ParseClubSort(q.Get("sort")),
		StatsSort: listing.ParseClubStatsSort(q.Get("stats_sort")),
	})
	respond(w, http.StatusOK, rows, err)
}

func (s *Server) ServeClubHandler(w http.ResponseWriter, r *http.Request) {
	club, err := s.Clubs.GetClubByID(mux.Vars(r)["id"])
	respond(w, http.StatusOK, club, err)
}

func (s *Server) ServeClubStatsHandler(w http.ResponseWriter, r *http.Request) {
	stats, err := s.Clubs.ClubStats(mux.Vars(r)["id"])
	respond(w, http.StatusOK, stats, err)
}

func (s *Server) ServeSaveClubHandler(w http.ResponseWriter, r *http.Request) {
	var form forms.ClubForm
	if !decode(w, r, &form) {
		return
	}
	id := mux.Vars(r)["id"]
	club, err := s.Clubs.SaveClub(id, form)
	respond(w, savedStatus(id), club, err)
}

func (s *Server) ServeDeleteClubHandler(w http.ResponseWriter, r *http.Request) {
	respond(w, http.StatusNoContent, nil, s.Clubs.DeleteClub(mux.Vars(r)["id"]))
}

func (s *Server) ServePlayersHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	players, err := s.Players.ListPlayers(listing.PlayerQuery{
		Search:   q.Get("search"),
		Country:  q.Get("country"),
		LeagueID: q.Get("league"),
		ClubID:   q.Get("club"),
		Position: q.Get("position"),
		Sort:     listing.ParsePlayerSort(q.Get("sort")),
	})
	respond(w, http.StatusOK, players, err)
}

func (s *Server) ServePlayerHandler(w http.ResponseWriter, r *http.Request) {
	player, err := s.Players.GetPlayerByID(mux.Vars(r)["id"])
	respond(w, http.StatusOK, player, err)
}

func (s *Server) ServeSavePlayerHandler(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	var form forms.PlayerForm
	if id == "" {
		form = forms.NewPlayerForm(s.Now())
	}
	if !decode(w, r, &form) {
		return
	}
	player, err := s.Players.SavePlayer(id, form)
	respond(w, savedStatus(id), player, err)
}

func (s *Server) ServeDeletePlayerHandler(w http.ResponseWriter, r *http.Request) {
	respond(w, http.StatusNoContent, nil, s.Players.DeletePlayer(mux.Vars(r)["id"]))
}

func (s *Server) ServeMatchesHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	matches, err := s.Matches.ListMatches(listing.MatchQuery{
		Search:   q.Get("search"),
		Country:  q.Get("country"),
		LeagueID: q.Get("league"),
		ClubID:   q.Get("club"),
		Sort:     listing.ParseMatchSort(q.Get("sort")),
	})
	respond(w, http.StatusOK, matches, err)
}

func (s *Server) ServeMatchHandler(w http.ResponseWriter, r *http.Request) {
	match, err := s.Matches.GetMatchByID(mux.Vars(r)["id"])
	respond(w, http.StatusOK, match, err)
}

func (s *Server) ServeSaveMatchHandler(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	var form forms.MatchForm
	if id == "" {
		form = forms.NewMatchForm(s.Now())
	}
	if !decode(w, r, &form) {
		return
	}
	match, err := s.Matches.SaveMatch(id, form)
	respond(w, savedStatus(id), match, err)
}

func (s *Server) ServeDeleteMatchHandler(w http.ResponseWriter, r *http.Request) {
	respond(w, http.StatusNoContent, nil, s.Matches.DeleteMatch(mux.Vars(r)["id"]))
}

func savedStatus(id string) int {
	if id == "" {
		return http.StatusCreated
	}
	return http.StatusOK
}

func decode(w http.ResponseWriter, r *http.Request, form any) bool {
	if err := json.NewDecoder(r.Body).Decode(form); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid JSON body"})
		return false
	}
	return true
}

// respond writes body with status, or the error classified into a status
// code. Storage details never reach the client.
func respond(w http.ResponseWriter, status int, body any, err error) {
	if err != nil {
		code := http.StatusInternalServerError
		switch {
		case errors.Is(err, models.ErrInvalidData):
			code = http.StatusUnprocessableEntity
		case errors.Is(err, models.ErrNotFound):
			code = http.StatusNotFound
		}
		writeJSON(w, code, map[string]string{"error": models.UserMessage(err)})
		return
	}
	if status == http.StatusNoContent {
		w.WriteHeader(status)
		return
	}
	writeJSON(w, status, body)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Error().Err(err).Msg("encode response")
	}
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Debug().Str("method", r.Method).Str("path", r.URL.Path).Dur("took", time.Since(start)).Msg("http request")
	})
}

func withCORS(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		// preflight never reaches the router
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		h.ServeHTTP(w, r)
	})
}

// StartWS serves the API on addr until ctx is cancelled.
func StartWS(ctx context.Context, addr string, DB *gorm.DB) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           NewServer(DB).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	log.Info().Str("addr", addr).Msg("http server started")

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server: %w", err)
	}
}
