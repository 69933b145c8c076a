package console

import (
	"fmt"
	"io"
	"net"
	"strings"

	"github.com/fatih/color"
	"github.com/samber/lo"
)

// AppName is the application the preview pages belong to.
const AppName = "DailyGrowth"

// ruleWidth is the width of the separator printed under the HTTP banner.
const ruleWidth = 60

// Banner describes where a server is reachable.
type Banner struct {
	// Root is the absolute served directory.
	Root string
	// IP is the resolved LAN address, or "localhost".
	IP string
	// Port is the bound port.
	Port string
	// Page is the test page advertised to the phone.
	Page string
	// LANAddrs are other local addresses worth trying.
	LANAddrs []string
}

func (b Banner) url(scheme, host string) string {
	return fmt.Sprintf("%s://%s/", scheme, net.JoinHostPort(host, b.Port))
}

func (b Banner) pageURL(scheme, host string) string {
	return b.url(scheme, host) + strings.TrimPrefix(b.Page, "/")
}

// extraAddrs are the LAN addresses other than the primary one.
func (b Banner) extraAddrs() []string {
	return lo.Without(b.LANAddrs, b.IP)
}

// Printer writes console messages.
type Printer struct {
	w io.Writer

	title *color.Color
	ok    *color.Color
	warn  *color.Color
	fail  *color.Color
	url   *color.Color
	dim   *color.Color
}

// New returns a printer writing to w. With useColor false no escape
// sequences are ever written.
func New(w io.Writer, useColor bool) *Printer {
	p := &Printer{
		w:     w,
		title: color.New(color.Bold),
		ok:    color.New(color.FgGreen),
		warn:  color.New(color.FgYellow),
		fail:  color.New(color.FgRed),
		url:   color.New(color.FgCyan, color.Underline),
		dim:   color.New(color.Faint),
	}
	if !useColor {
		for _, c := range []*color.Color{p.title, p.ok, p.warn, p.fail, p.url, p.dim} {
			c.DisableColor()
		}
	}
	return p
}

func (p *Printer) line(c *color.Color, format string, args ...any) {
	if c == nil {
		fmt.Fprintf(p.w, format+"\n", args...)
		return
	}
	c.Fprintf(p.w, format, args...)
	fmt.Fprintln(p.w)
}

func (p *Printer) blank() {
	fmt.Fprintln(p.w)
}

// HTTPIntro prints the HTTP server header before binding.
func (p *Printer) HTTPIntro(root, ip string) {
	p.line(p.title, "🚀 %s - Serveur Test Notifications PWA", AppName)
	p.line(nil, "📁 Répertoire: %s", root)
	p.line(nil, "🌐 IP locale détectée: %s", ip)
	p.blank()
}

// HTTPReady prints the URLs and iPhone instructions once the HTTP
// server is bound.
func (p *Printer) HTTPReady(b Banner) {
	p.line(p.ok, "✅ Serveur HTTP démarré avec succès !")
	p.blank()
	p.line(nil, "📱 URLs à tester sur iPhone :")
	p.line(p.url, "   %s", b.pageURL("http", b.IP))
	p.line(nil, "   %s (Mac uniquement)", b.pageURL("http", "localhost"))
	for _, addr := range b.extraAddrs() {
		p.line(p.dim, "   %s (autre interface)", b.pageURL("http", addr))
	}
	p.blank()
	p.line(nil, "📋 Instructions iPhone :")
	p.line(nil, "   1. Connecter iPhone au MÊME WiFi que le Mac")
	p.line(nil, "   2. Ouvrir Safari iOS")
	p.line(nil, "   3. Taper l'URL complète")
	p.line(nil, "   4. Autoriser les notifications")
	p.line(nil, "   5. Ajouter à l'écran d'accueil (Partager → 'Ajouter à l'écran d'accueil')")
	p.line(nil, "   6. Lancer depuis l'icône PWA pour tester les badges")
	p.blank()
	p.line(nil, "🔧 Dépannage :")
	p.line(nil, "   - Vérifier que iPhone et Mac sont sur le même WiFi")
	p.line(nil, "   - Désactiver le pare-feu macOS si nécessaire")
	p.line(nil, "   - Essayer de naviguer vers %s d'abord", strings.TrimSuffix(b.url("http", b.IP), "/"))
	p.blank()
	p.line(nil, "🛑 Ctrl+C pour arrêter le serveur")
	p.line(nil, "%s", strings.Repeat("-", ruleWidth))
}

// HTTPSIntro prints the HTTPS server header.
func (p *Printer) HTTPSIntro(root string) {
	p.line(p.title, "🔒 Démarrage serveur HTTPS pour test notifications PWA %s", AppName)
	p.line(nil, "📁 Répertoire: %s", root)
}

// GeneratingCert announces self-signed certificate generation.
func (p *Printer) GeneratingCert() {
	p.line(p.warn, "⚠️ Génération certificats auto-signés...")
}

// HTTPSReady prints the URLs and instructions once the HTTPS server is
// bound.
func (p *Printer) HTTPSReady(b Banner) {
	p.line(p.ok, "✅ Serveur HTTPS démarré: %s", strings.TrimSuffix(b.url("https", b.IP), "/"))
	p.line(nil, "🧪 Page de test: %s", b.pageURL("https", b.IP))
	for _, addr := range b.extraAddrs() {
		p.line(p.dim, "   %s (autre interface)", b.pageURL("https", addr))
	}
	p.line(nil, "📱 Instructions:")
	p.line(nil, "   1. Ouvrir l'URL dans Safari iOS")
	p.line(nil, "   2. Accepter le certificat auto-signé")
	p.line(nil, "   3. Ajouter à l'écran d'accueil (PWA)")
	p.line(nil, "   4. Tester les notifications et badges")
	p.line(nil, "\n🛑 Ctrl+C pour arrêter")
}

// FallbackReady prints where the plain HTTP fallback is reachable.
func (p *Printer) FallbackReady(b Banner) {
	p.line(p.ok, "✅ Serveur HTTP de secours démarré: %s", strings.TrimSuffix(b.url("http", b.IP), "/"))
	p.line(nil, "🧪 Page de test: %s", b.pageURL("http", b.IP))
	p.line(nil, "🛑 Ctrl+C pour arrêter")
}

// PortInUse reports an occupied port.
func (p *Printer) PortInUse(port string) {
	p.line(p.fail, "❌ Le port %s est déjà utilisé.", port)
	p.line(nil, "💡 Essayez de changer le PORT dans la configuration (server.http.addr) ou arrêtez l'autre serveur.")
}

// ServerError reports a server failure.
func (p *Printer) ServerError(err error) {
	p.line(p.fail, "❌ Erreur serveur: %v", err)
}

// Fallback announces the plain HTTP fallback.
func (p *Printer) Fallback(port string) {
	p.line(p.warn, "🔄 Fallback serveur HTTP simple sur port %s...", port)
}

// StoppedHTTP reports a clean stop of the HTTP server.
func (p *Printer) StoppedHTTP() {
	p.line(nil, "\n🛑 Serveur arrêté proprement")
}

// StoppedHTTPS reports a stop of the HTTPS server or its fallback.
func (p *Printer) StoppedHTTPS() {
	p.line(nil, "\n🛑 Serveur arrêté")
}

// ContentChanged reports changed files. Service-worker changes get a
// reminder because the phone keeps the old worker until it re-registers.
func (p *Printer) ContentChanged(paths []string, isServiceWorker func(string) bool) {
	workers := lo.Filter(paths, func(path string, _ int) bool {
		return isServiceWorker != nil && isServiceWorker(path)
	})
	if len(workers) == 0 {
		return
	}
	p.line(p.warn, "🔁 Service worker modifié: %s", strings.Join(workers, ", "))
	p.line(nil, "💡 Fermer puis relancer la PWA sur l'iPhone pour charger la nouvelle version.")
}
