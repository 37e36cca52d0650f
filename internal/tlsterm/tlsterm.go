// Package tlsterm implements the TLS Terminator of spec.md §4.7 as a
// thin adapter from config.HttpsConfiguration onto the kept
// certificates package's TLS config builder, reusing the teacher's own
// cert-loading and protocol-version idiom instead of calling
// crypto/tls directly.
package tlsterm

import (
	"crypto/tls"

	"github.com/kjetilfjellheim/apinae/apperror"
	tlsaut "github.com/kjetilfjellheim/apinae/certificates/auth"
	tlsvrs "github.com/kjetilfjellheim/apinae/certificates/tlsversion"
	"github.com/kjetilfjellheim/apinae/certificates"
	"github.com/kjetilfjellheim/apinae/config"
	liberr "github.com/kjetilfjellheim/apinae/errors"
)

// Build constructs the server-side *tls.Config for one HttpsConfiguration.
func Build(https *config.HttpsConfiguration) (*tls.Config, liberr.Error) {
	cfg := certificates.New()

	if err := cfg.AddCertificatePairFile(https.PrivateKey, https.ServerCertificate); err != nil {
		return nil, apperror.Configuration("failed to load server certificate/key", err)
	}

	if https.ClientCertificate != nil {
		if err := cfg.AddClientCAFile(*https.ClientCertificate); err != nil {
			return nil, apperror.Configuration("failed to load client CA certificate", err)
		}
		cfg.SetClientAuth(tlsaut.RequireAndVerifyClientCert)
	} else {
		cfg.SetClientAuth(tlsaut.NoClientCert)
	}

	minV, maxV, err := protocolRange(https.Versions())
	if err != nil {
		return nil, err
	}
	cfg.SetVersionMin(tlsvrs.ParseInt(int(minV)))
	cfg.SetVersionMax(tlsvrs.ParseInt(int(maxV)))

	return cfg.TlsConfig(""), nil
}

// protocolRange maps the configured TlsVersion set onto a min/max pair,
// collapsing 1.0/1.1/1.2 onto the TLS1.2 entry and 1.3 onto TLS1.3, per
// spec.md §4.7. An empty set is a configuration error.
func protocolRange(versions []tlsvrs.Version) (uint16, uint16, liberr.Error) {
	if len(versions) == 0 {
		return 0, 0, apperror.Configuration("supported TLS version set must not be empty")
	}

	min := tlsvrs.VersionTLS13.TLS()
	max := tlsvrs.VersionTLS12.TLS()

	for _, v := range versions {
		collapsed := v.TLS()
		if collapsed < tls.VersionTLS12 {
			collapsed = tls.VersionTLS12
		}
		if collapsed < min {
			min = collapsed
		}
		if collapsed > max {
			max = collapsed
		}
	}

	return min, max, nil
}
