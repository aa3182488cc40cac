package http

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"unicode/utf8"

	"finboard/internal/transactions"
)

// maxQueryLen bounds the search text taken from a request.
const maxQueryLen = 100

// viewFromQuery reads the transactions view state from account, q and sort.
// Missing or unknown values take their defaults; the account is checked
// against the API's accounts later, once they are known.
func viewFromQuery(r *http.Request) transactions.View {
	v := transactions.DefaultView()
	q := r.URL.Query()

	if a := sanitizeInput(q.Get("account")); a != "" {
		v.Account = a
	}
	v.Query = sanitizeInput(q.Get("q"))
	if len(v.Query) > maxQueryLen {
		v.Query = truncate(v.Query, maxQueryLen)
	}
	if m, ok := transactions.ParseSortMode(q.Get("sort")); ok {
		v.Sort = m
	}
	return v
}

// viewQuery encodes v the way viewFromQuery reads it. Default values are
// left out.
func viewQuery(v transactions.View) string {
	q := url.Values{}
	if v.Account != "" && v.Account != transactions.AllAccounts {
		q.Set("account", v.Account)
	}
	if v.Query != "" {
		q.Set("q", v.Query)
	}
	if v.Sort != "" && v.Sort != transactions.DefaultSort {
		q.Set("sort", string(v.Sort))
	}
	return q.Encode()
}

// withQuery appends an encoded query to path when there is one.
func withQuery(path, query string) string {
	if query == "" {
		return path
	}
	return path + "?" + query
}

// sanitizeInput removes control characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}

// truncate cuts s to at most n bytes without splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

func isHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}

func writeJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}
