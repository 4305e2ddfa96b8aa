// Package mockriot is a deterministic stand-in for the upstream match API.
// It serves the league, summoner, and match endpoints the crawler consumes,
// generating stable synthetic data from each key so a run against it is
// fully reproducible. Used for local end-to-end runs and integration tests.
package mockriot

import (
	"encoding/json"
	"fmt"
	"hash/fnv"
	"net/http"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/riftlab/draftcrawl/pkg/logger"
)

// Namespace for deriving stable synthetic player keys.
var puuidNamespace = uuid.MustParse("7d9a4ef2-30c1-4f58-9b7e-2a6f1c5d8e03")

var champions = []string{
	"Aatrox", "Ahri", "Akali", "Ashe", "Braum", "Caitlyn", "Darius", "Ekko",
	"Ezreal", "Garen", "Jinx", "Kaisa", "Leona", "Lux", "Malphite", "Nami",
	"Orianna", "Pyke", "Riven", "Sett", "Thresh", "Vayne", "Yasuo", "Zed",
}

// Server generates the synthetic upstream. Every response is a pure
// function of the request, except the optional rate-limit injector which
// returns 429 on every Nth request to exercise the client's retry path.
type Server struct {
	pages          int
	playersPerPage int
	perPlayer      int
	overlap        int
	limitEvery     int
	goneEvery      int

	requests atomic.Int64

	log logger.Logger
}

// New builds a Server with configuration options.
func New(opts ...Option) *Server {
	s := &Server{
		pages:          3,
		playersPerPage: 25,
		perPlayer:      20,
		overlap:        10,
		limitEvery:     0,
		goneEvery:      0,
		log:            logger.Get().Named("mockriot"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the HTTP surface. Platform and regional routes share one
// mux; the crawler may point both base URLs at the same listener.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/lol/league/v4/entries/", s.leagueEntries)
	mux.HandleFunc("/lol/summoner/v4/summoners/", s.summoner)
	mux.HandleFunc("/lol/match/v5/matches/", s.matches)
	return s.limited(mux)
}

// Requests reports how many requests the server has seen, including
// injected rejections. Tests use it to prove resumed runs refetch nothing.
func (s *Server) Requests() int64 {
	return s.requests.Load()
}

// limited wraps the mux with the 429 injector.
func (s *Server) limited(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := s.requests.Add(1)
		if s.limitEvery > 0 && n%int64(s.limitEvery) == 0 {
			s.log.Debug(r.Context(), "injecting rate limit", logger.String("path", r.URL.Path))
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

type leagueEntry struct {
	SummonerID   string `json:"summonerId"`
	Tier         string `json:"tier"`
	Rank         string `json:"rank"`
	LeaguePoints int    `json:"leaguePoints"`
	Wins         int    `json:"wins"`
	Losses       int    `json:"losses"`
}

func (s *Server) leagueEntries(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/lol/league/v4/entries/")
	parts := strings.Split(rest, "/")
	if len(parts) != 3 {
		http.NotFound(w, r)
		return
	}
	tier, division := parts[1], parts[2]

	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		http.Error(w, "bad page", http.StatusBadRequest)
		return
	}
	if page > s.pages {
		writeJSON(w, []leagueEntry{})
		return
	}

	entries := make([]leagueEntry, 0, s.playersPerPage)
	for i := 0; i < s.playersPerPage; i++ {
		ordinal := (page-1)*s.playersPerPage + i
		id := fmt.Sprintf("summoner-%04d", ordinal)
		h := keyHash(id)
		entries = append(entries, leagueEntry{
			SummonerID:   id,
			Tier:         tier,
			Rank:         division,
			LeaguePoints: int(h % 100),
			Wins:         int(h%400) + 50,
			Losses:       int(h%350) + 50,
		})
	}
	writeJSON(w, entries)
}

type summoner struct {
	ID    string `json:"id"`
	PUUID string `json:"puuid"`
}

func (s *Server) summoner(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/lol/summoner/v4/summoners/")
	if id == "" || strings.Contains(id, "/") {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, summoner{ID: id, PUUID: puuidFor(id)})
}

func (s *Server) matches(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/lol/match/v5/matches/")
	if puuid, ok := strings.CutSuffix(rest, "/ids"); ok {
		s.matchIDs(w, r, strings.TrimPrefix(puuid, "by-puuid/"))
		return
	}
	s.matchDetail(w, r, rest)
}

// matchIDs derives the player's history from its ordinal. Consecutive
// players share overlap ids, so collecting across the roster exercises
// deduplication the way real shared match histories do.
func (s *Server) matchIDs(w http.ResponseWriter, r *http.Request, puuid string) {
	ordinal, ok := s.ordinalForPUUID(puuid)
	if !ok {
		http.NotFound(w, r)
		return
	}

	count := s.perPlayer
	if v := r.URL.Query().Get("count"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n < count {
			count = n
		}
	}

	stride := s.perPlayer - s.overlap
	if stride < 1 {
		stride = 1
	}
	ids := make([]string, 0, count)
	for i := 0; i < count; i++ {
		ids = append(ids, fmt.Sprintf("MOCK1_%07d", ordinal*stride+i))
	}
	writeJSON(w, ids)
}

type teamResult struct {
	TeamID int  `json:"teamId"`
	Win    bool `json:"win"`
}

type participant struct {
	TeamID       int    `json:"teamId"`
	ChampionName string `json:"championName"`
}

type matchDetail struct {
	Info struct {
		Teams        []teamResult  `json:"teams"`
		Participants []participant `json:"participants"`
	} `json:"info"`
}

func (s *Server) matchDetail(w http.ResponseWriter, r *http.Request, matchID string) {
	if !strings.HasPrefix(matchID, "MOCK1_") {
		http.NotFound(w, r)
		return
	}
	h := keyHash(matchID)
	if s.goneEvery > 0 && h%uint64(s.goneEvery) == 0 {
		http.NotFound(w, r)
		return
	}

	var d matchDetail
	d.Info.Teams = []teamResult{
		{TeamID: 100, Win: h%2 == 0},
		{TeamID: 200, Win: h%2 != 0},
	}
	for i := 0; i < 10; i++ {
		team := 100
		if i >= 5 {
			team = 200
		}
		d.Info.Participants = append(d.Info.Participants, participant{
			TeamID:       team,
			ChampionName: champions[(h+uint64(i)*7)%uint64(len(champions))],
		})
	}
	writeJSON(w, d)
}

// ordinalForPUUID reverses puuidFor by probing the roster space. The mock
// roster is small enough that a linear scan is fine.
func (s *Server) ordinalForPUUID(puuid string) (int, bool) {
	total := s.pages * s.playersPerPage
	for i := 0; i < total; i++ {
		if puuidFor(fmt.Sprintf("summoner-%04d", i)) == puuid {
			return i, true
		}
	}
	return 0, false
}

func puuidFor(summonerID string) string {
	return uuid.NewSHA1(puuidNamespace, []byte(summonerID)).String()
}

func keyHash(s string) uint64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return h.Sum64()
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}
