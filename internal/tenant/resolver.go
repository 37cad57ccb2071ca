package tenant

import (
	"net"
	"net/http"
	"strings"
)

// HeaderSlug заголовок с явным указанием slug бизнеса
const HeaderSlug = "X-Business-Slug"

// QueryParamSlug query-параметр с указанием slug бизнеса
const QueryParamSlug = "business"

// Resolver извлекает slug tenant из метаданных HTTP-запроса.
//
// Порядок стратегий (первая непустая выигрывает):
//  1. поддомен из Host-заголовка, кроме игнорируемых (www, api, localhost, IP);
//  2. заголовок X-Business-Slug;
//  3. query-параметр business.
type Resolver struct {
	ignoredSubdomains map[string]struct{}
}

// NewResolver создает resolver с заданным списком игнорируемых поддоменов
func NewResolver(ignoredSubdomains []string) *Resolver {
	ignored := make(map[string]struct{}, len(ignoredSubdomains))
	for _, s := range ignoredSubdomains {
		ignored[strings.ToLower(s)] = struct{}{}
	}
	return &Resolver{ignoredSubdomains: ignored}
}

// ResolveSlug возвращает slug tenant или пустую строку, если ни одна стратегия не сработала
func (r *Resolver) ResolveSlug(req *http.Request) string {
	if slug := r.slugFromHost(req.Host); slug != "" {
		return slug
	}

	if slug := strings.TrimSpace(req.Header.Get(HeaderSlug)); slug != "" {
		return strings.ToLower(slug)
	}

	if slug := strings.TrimSpace(req.URL.Query().Get(QueryParamSlug)); slug != "" {
		return strings.ToLower(slug)
	}

	return ""
}

// slugFromHost извлекает поддомен из Host-заголовка.
// "barbershop-x.example.com:8080" -> "barbershop-x";
// "example.com", "localhost", IP-адреса и игнорируемые поддомены -> "".
func (r *Resolver) slugFromHost(host string) string {
	if host == "" {
		return ""
	}

	// Отрезаем порт, если он есть
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}

	host = strings.ToLower(host)

	// IP-адрес поддоменов не имеет
	if net.ParseIP(host) != nil {
		return ""
	}

	parts := strings.Split(host, ".")
	// Нужен хотя бы поддомен + домен + зона
	if len(parts) < 3 {
		return ""
	}

	sub := parts[0]
	if sub == "" {
		return ""
	}
	if _, ok := r.ignoredSubdomains[sub]; ok {
		return ""
	}

	return sub
}
