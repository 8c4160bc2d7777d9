package fingerprint

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/url"

	utls "github.com/refraction-networking/utls"
)

// Profile names a TLS ClientHello fingerprint to present. Pairing the TLS
// fingerprint with a matching User-Agent keeps the transport identity
// consistent with the claimed browser.
type Profile string

const (
	ProfileChrome  Profile = "chrome"
	ProfileFirefox Profile = "firefox"
	ProfileSafari  Profile = "safari"
	ProfileGo      Profile = "go"     // stock Go TLS stack
	ProfileRandom  Profile = "random" // randomized uTLS hello
)

// Transport builds an http.RoundTripper presenting the given fingerprint.
// ProfileGo yields a plain cloned http.Transport; every other profile wraps
// the TLS dial in a uTLS handshake. proxyFunc, when non-nil, is installed as
// the transport's Proxy.
func Transport(p Profile, proxyFunc func(*http.Request) (*url.URL, error)) (http.RoundTripper, error) {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	if proxyFunc != nil {
		transport.Proxy = proxyFunc
	}

	if p == ProfileGo {
		return transport, nil
	}

	var helloID utls.ClientHelloID
	switch p {
	case ProfileChrome:
		helloID = utls.HelloChrome_Auto
	case ProfileFirefox:
		helloID = utls.HelloFirefox_Auto
	case ProfileSafari:
		helloID = utls.HelloIOS_Auto
	case ProfileRandom:
		helloID = utls.HelloRandomizedALPN
	default:
		return nil, fmt.Errorf("unknown fingerprint profile %q", p)
	}

	transport.DialTLSContext = func(ctx context.Context, network, addr string) (net.Conn, error) {
		tcpConn, err := transport.DialContext(ctx, network, addr)
		if err != nil {
			return nil, err
		}

		host, _, err := net.SplitHostPort(addr)
		if err != nil {
			host = addr
		}

		uConn := utls.UClient(tcpConn, &utls.Config{ServerName: host}, helloID)
		if err := uConn.HandshakeContext(ctx); err != nil {
			_ = tcpConn.Close()
			return nil, fmt.Errorf("utls handshake: %w", err)
		}
		return uConn, nil
	}

	return transport, nil
}
