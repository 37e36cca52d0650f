/*
 * MIT License
 *
 * Copyright (c) 2020 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

package certificates

import (
	"crypto/tls"
	"io"

	tlscpr "github.com/kjetilfjellheim/apinae/certificates/cipher"
	tlsvrs "github.com/kjetilfjellheim/apinae/certificates/tlsversion"
)

func (o *config) RegisterRand(rand io.Reader) {
	o.rand = rand
}

func (o *config) SetVersionMin(v tlsvrs.Version) {
	o.tlsMinVersion = v
}

func (o *config) GetVersionMin() tlsvrs.Version {
	return o.tlsMinVersion
}

func (o *config) SetVersionMax(v tlsvrs.Version) {
	o.tlsMaxVersion = v
}

func (o *config) GetVersionMax() tlsvrs.Version {
	return o.tlsMaxVersion
}

func (o *config) SetCipherList(c []tlscpr.Cipher) {
	o.cipherList = make([]tlscpr.Cipher, 0)
	o.AddCiphers(c...)
}

func (o *config) AddCiphers(c ...tlscpr.Cipher) {
	o.cipherList = append(o.cipherList, c...)
}

func (o *config) GetCiphers() []tlscpr.Cipher {
	var res = make([]tlscpr.Cipher, 0)

	for _, i := range o.cipherList {
		if tlscpr.Check(i.Uint16()) {
			res = append(res, i)
		}
	}

	return res
}

func (o *config) SetDynamicSizingDisabled(flag bool) {
	o.dynSizingDisabled = flag
}

func (o *config) SetSessionTicketDisabled(flag bool) {
	o.ticketSessionDisabled = flag
}

func (o *config) Clone() TLSConfig {
	return o.Config().NewFrom(nil)
}

func (o *config) TLS(serverName string) *tls.Config {
	return o.TlsConfig(serverName)
}

// TlsConfig builds a *tls.Config from the accumulated certificate pairs,
// root/client CA pools, cipher/curve lists and version bounds.
func (o *config) TlsConfig(serverName string) *tls.Config {
	/* #nosec */
	cnf := &tls.Config{
		Rand:                        o.rand,
		Certificates:                o.GetCertificatePair(),
		RootCAs:                     o.GetRootCAPool(),
		ClientCAs:                   o.GetClientCAPool(),
		ClientAuth:                  o.clientAuth.TLS(),
		MinVersion:                  o.tlsMinVersion.TLS(),
		MaxVersion:                  o.tlsMaxVersion.TLS(),
		DynamicRecordSizingDisabled: o.dynSizingDisabled,
		SessionTicketsDisabled:      o.ticketSessionDisabled,
	}

	if serverName != "" {
		cnf.ServerName = serverName
	}

	if cl := o.GetCiphers(); len(cl) > 0 {
		for _, c := range cl {
			cnf.CipherSuites = append(cnf.CipherSuites, c.TLS())
		}
	}

	if cv := o.GetCurves(); len(cv) > 0 {
		for _, c := range cv {
			cnf.CurvePreferences = append(cnf.CurvePreferences, c.TLS())
		}
	}

	return cnf
}

func (o *config) Config() *Config {
	res := &Config{
		VersionMin:           o.tlsMinVersion,
		VersionMax:           o.tlsMaxVersion,
		AuthClient:           o.clientAuth,
		DynamicSizingDisable: o.dynSizingDisabled,
		SessionTicketDisable: o.ticketSessionDisabled,
		CipherList:           o.GetCiphers(),
		CurveList:            o.GetCurves(),
		RootCA:               o.GetRootCA(),
		ClientCA:             o.GetClientCA(),
	}

	for _, c := range o.cert {
		res.Certs = append(res.Certs, c.Model())
	}

	return res
}
