package handler

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	json "github.com/goccy/go-json"

	"github.com/Abinayasri1011/noolsakaa/internal/catalog/model"
)

var validate = newValidator()

// newValidator reports fields by their JSON names.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

type resolveRequest struct {
	Query string `json:"query" validate:"required,max=200"`
}

type recommendRequest struct {
	Favorites []string `json:"favorites" validate:"dive,max=200"`
	TopN      int      `json:"top_n" validate:"gte=0"`
}

type pickDTO struct {
	Query    string   `json:"query"`
	ID       int      `json:"id"`
	Title    string   `json:"title"`
	Author   string   `json:"author"`
	Genre    string   `json:"genre,omitempty"`
	Method   string   `json:"method"`
	Score    *float64 `json:"score,omitempty"`
	ByAuthor bool     `json:"byAuthor"`
}

type bookDTO struct {
	Rank            int               `json:"rank"`
	ID              int               `json:"id"`
	Title           string            `json:"title"`
	Author          string            `json:"author"`
	Genre           string            `json:"genre,omitempty"`
	AverageRating   float64           `json:"averageRating"`
	NumberOfRatings int               `json:"numberOfRatings"`
	StallNumber     string            `json:"stallNumber,omitempty"`
	Publisher       string            `json:"publisher,omitempty"`
	Tier            string            `json:"tier"`
	Backfill        bool              `json:"backfill,omitempty"`
	Extra           map[string]string `json:"extra,omitempty"`
}

type recommendResponse struct {
	TopN            int       `json:"topN"`
	Picks           []pickDTO `json:"picks"`
	Recommendations []bookDTO `json:"recommendations"`
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Query   string `json:"query,omitempty"`
}

func toPicks(favs []model.Favorite) []pickDTO {
	out := make([]pickDTO, len(favs))
	for i, f := range favs {
		out[i] = pickDTO{
			Query:    f.Query,
			ID:       f.Entry.ID,
			Title:    f.Entry.Title,
			Author:   f.Entry.Author,
			Genre:    f.Entry.Genre,
			Method:   f.Method,
			Score:    f.Score,
			ByAuthor: f.ByAuthor(),
		}
	}
	return out
}

func toBooks(recs []model.Recommendation) []bookDTO {
	out := make([]bookDTO, len(recs))
	for i, r := range recs {
		e := r.Entry
		out[i] = bookDTO{
			Rank:            i + 1,
			ID:              e.ID,
			Title:           e.Title,
			Author:          e.Author,
			Genre:           e.Genre,
			AverageRating:   e.AverageRating,
			NumberOfRatings: e.NumberOfRatings,
			StallNumber:     e.StallNumber,
			Publisher:       e.Publisher,
			Tier:            r.Tier,
			Backfill:        r.Backfill,
			Extra:           e.Extra,
		}
	}
	return out
}

// cleanFavorites drops blank picks, like an untouched search box.
func cleanFavorites(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if strings.TrimSpace(s) != "" {
			out = append(out, s)
		}
	}
	return out
}

// exportCSV renders the list as "Book Name,Author,Stall Number".
func exportCSV(recs []model.Recommendation) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write([]string{"Book Name", "Author", "Stall Number"})
	for _, r := range recs {
		_ = w.Write([]string{r.Entry.Title, r.Entry.Author, r.Entry.StallNumber})
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

// qrPayload renders one numbered line per book for a scannable code, cut to
// max runes.
func qrPayload(recs []model.Recommendation, max int) string {
	lines := make([]string, len(recs))
	for i, r := range recs {
		lines[i] = fmt.Sprintf("%d. %s — %s — Stall %s", i+1, r.Entry.Title, r.Entry.Author, r.Entry.StallNumber)
	}
	s := strings.Join(lines, "\n")
	if max > 0 {
		if rs := []rune(s); len(rs) > max {
			s = string(rs[:max])
		}
	}
	return s
}

func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("decode body: %w", err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	_ = writeJSON(w, status, errorResponse{Error: code, Message: msg})
}

func atoi(s string, def int) int {
	if s == "" {
		return def
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return i
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		if fe.Param() != "" {
			return fmt.Sprintf("%s failed %s=%s", fe.Field(), fe.Tag(), fe.Param())
		}
		return fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag())
	}
	return err.Error()
}
