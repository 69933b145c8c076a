package tlscert

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"errors"
	"fmt"
	"math/big"
	"net"
	"time"

	"github.com/samber/lo"
	"github.com/spf13/afero"
)

// DefaultValidFor is the validity period of generated certificates.
const DefaultValidFor = 24 * time.Hour

// Organization is the subject organization of generated certificates.
const Organization = "pwapreview local development"

var (
	// ErrNoCommonName is returned when Options carry no common name.
	ErrNoCommonName = errors.New("tlscert: common name is required")

	// ErrInvalidValidity is returned for a non-positive validity period.
	ErrInvalidValidity = errors.New("tlscert: validity period must be positive")
)

// Options describe a certificate to generate.
type Options struct {
	// CommonName is the subject CN, usually the LAN address of the host.
	CommonName string

	// Hosts are extra subject alternative names. IP literals become IP SANs,
	// anything else a DNS SAN. The common name is always included.
	Hosts []string

	// ValidFor defaults to DefaultValidFor.
	ValidFor time.Duration

	// Now defaults to time.Now.
	Now func() time.Time
}

// Exists reports whether both files of the pair are present in fs.
func Exists(fs afero.Fs, certFile, keyFile string) (bool, error) {
	for _, name := range []string{certFile, keyFile} {
		ok, err := afero.Exists(fs, name)
		if err != nil {
			return false, fmt.Errorf("tlscert: stat %s: %w", name, err)
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

// Generate creates a self-signed ECDSA P-256 certificate and returns the
// PEM-encoded certificate and PKCS#8 private key.
func Generate(opts Options) (certPEM, keyPEM []byte, err error) {
	if opts.CommonName == "" {
		return nil, nil, ErrNoCommonName
	}
	validFor := opts.ValidFor
	if validFor == 0 {
		validFor = DefaultValidFor
	}
	if validFor < 0 {
		return nil, nil, ErrInvalidValidity
	}
	now := time.Now
	if opts.Now != nil {
		now = opts.Now
	}

	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return nil, nil, fmt.Errorf("tlscert: generate key: %w", err)
	}

	serialNumber, err := rand.Int(rand.Reader, new(big.Int).Lsh(big.NewInt(1), 128))
	if err != nil {
		return nil, nil, fmt.Errorf("tlscert: generate serial: %w", err)
	}

	notBefore := now()
	template := &x509.Certificate{
		SerialNumber: serialNumber,
		Subject: pkix.Name{
			Organization: []string{Organization},
			CommonName:   opts.CommonName,
		},
		NotBefore:             notBefore,
		NotAfter:              notBefore.Add(validFor),
		KeyUsage:              x509.KeyUsageDigitalSignature | x509.KeyUsageCertSign,
		ExtKeyUsage:           []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
		BasicConstraintsValid: true,
		// Mobile browsers only offer full trust for CA certificates.
		IsCA: true,
	}

	for _, host := range lo.Uniq(append([]string{opts.CommonName}, opts.Hosts...)) {
		if ip := net.ParseIP(host); ip != nil {
			template.IPAddresses = append(template.IPAddresses, ip)
		} else if host != "" {
			template.DNSNames = append(template.DNSNames, host)
		}
	}

	certDER, err := x509.CreateCertificate(rand.Reader, template, template, &key.PublicKey, key)
	if err != nil {
		return nil, nil, fmt.Errorf("tlscert: create certificate: %w", err)
	}

	keyDER, err := x509.MarshalPKCS8PrivateKey(key)
	if err != nil {
		return nil, nil, fmt.Errorf("tlscert: marshal key: %w", err)
	}

	certPEM = pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: certDER})
	keyPEM = pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: keyDER})
	return certPEM, keyPEM, nil
}

// Create generates a pair and writes it to fs, replacing both files.
// The key is written first with mode 0600, then the certificate with 0644.
func Create(fs afero.Fs, certFile, keyFile string, opts Options) error {
	certPEM, keyPEM, err := Generate(opts)
	if err != nil {
		return err
	}

	if err := afero.WriteFile(fs, keyFile, keyPEM, 0600); err != nil {
		return fmt.Errorf("tlscert: write key %s: %w", keyFile, err)
	}
	if err := afero.WriteFile(fs, certFile, certPEM, 0644); err != nil {
		return fmt.Errorf("tlscert: write cert %s: %w", certFile, err)
	}
	return nil
}

// LoadKeyPair reads and parses the pair from fs.
func LoadKeyPair(fs afero.Fs, certFile, keyFile string) (tls.Certificate, error) {
	certPEM, err := afero.ReadFile(fs, certFile)
	if err != nil {
		return tls.Certificate{}, fmt.Errorf("tlscert: read cert %s: %w", certFile, err)
	}
	keyPEM, err := afero.ReadFile(fs, keyFile)
	if err != nil {
		return tls.Certificate{}, fmt.Errorf("tlscert: read key %s: %w", keyFile, err)
	}

	cert, err := tls.X509KeyPair(certPEM, keyPEM)
	if err != nil {
		return tls.Certificate{}, fmt.Errorf("tlscert: load key pair: %w", err)
	}
	return cert, nil
}
