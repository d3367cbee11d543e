package crawler

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"syscall"

	"github.com/PuerkitoBio/goquery"
)

// TransportError indica que não foi possível conectar ao site.
type TransportError struct {
	URL string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("não foi possível acessar o site (%s): %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// UpstreamError é a resposta do site com status diferente de 200.
type UpstreamError struct {
	Section    string
	Subsection string
	Year       int
	StatusCode int
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("servidor indisponível: aba %s, ano %d, status %d", e.Section, e.Year, e.StatusCode)
}

// MissingTableError carrega o documento recebido quando a página não tem a
// tabela de dados, para diagnóstico.
type MissingTableError struct {
	URL      string
	Headers  http.Header
	Document *goquery.Document
}

func (e *MissingTableError) Error() string {
	return fmt.Sprintf("tabela %q não encontrada em %s", tableSelector, e.URL)
}

// isConnectionError separa falhas de conexão (DNS, recusa, reset, timeout)
// de outros erros do cliente HTTP.
func isConnectionError(err error) bool {
	if errors.Is(err, context.Canceled) {
		return false
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	return errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.ECONNABORTED)
}
