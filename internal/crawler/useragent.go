package crawler

import "math/rand/v2"

// UserAgentSource fornece o User-Agent de cada requisição.
type UserAgentSource interface {
	UserAgent() string
}

// RandomUserAgents sorteia um User-Agent da lista a cada chamada.
type RandomUserAgents []string

func (r RandomUserAgents) UserAgent() string {
	if len(r) == 0 {
		return "Mozilla/5.0"
	}
	return r[rand.IntN(len(r))]
}

// StaticUserAgent devolve sempre o mesmo valor.
type StaticUserAgent string

func (s StaticUserAgent) UserAgent() string {
	return string(s)
}

// DefaultUserAgents simula navegadores comuns para evitar bloqueios simples.
var DefaultUserAgents = RandomUserAgents{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:125.0) Gecko/20100101 Firefox/125.0",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 14_4_1) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.4.1 Safari/605.1.15",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
	"Mozilla/5.0 (X11; Ubuntu; Linux x86_64; rv:124.0) Gecko/20100101 Firefox/124.0",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36 Edg/124.0.2478.67",
	"Mozilla/5.0 (iPhone; CPU iPhone OS 17_4 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.4 Mobile/15E148 Safari/604.1",
}
