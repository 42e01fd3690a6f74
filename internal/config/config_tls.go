package config

import "fmt"

// ValidateTLSConfig validates the TLS configuration
func (c *Config) ValidateTLSConfig() error {
	tls := c.Server.TLS

	switch tls.Mode {
	case "disabled", "":
		return nil
	case "server":
		if err := requireCertAndKey(tls, "server mode"); err != nil {
			return err
		}
	case "mutual":
		if err := requireCertAndKey(tls, "mutual mode"); err != nil {
			return err
		}
		if err := exactlyOneSource("CA certificate", "caFile", tls.CAFile, "caContent", tls.CAContent); err != nil {
			return err
		}
		switch tls.ClientAuthPolicy {
		case "require", "request", "verify", "":
		default:
			return fmt.Errorf("invalid clientAuthPolicy: %s (must be 'require', 'request', or 'verify')", tls.ClientAuthPolicy)
		}
	default:
		return fmt.Errorf("invalid TLS mode: %s (must be 'disabled', 'server', or 'mutual')", tls.Mode)
	}

	switch tls.MinVersion {
	case "", "1.2", "1.3":
		return nil
	default:
		return fmt.Errorf("invalid TLS minVersion: %s (must be '1.2' or '1.3')", tls.MinVersion)
	}
}

func requireCertAndKey(tls TLSConfig, mode string) error {
	if err := exactlyOneSource("TLS certificate for "+mode, "certFile", tls.CertFile, "certContent", tls.CertContent); err != nil {
		return err
	}
	return exactlyOneSource("TLS key for "+mode, "keyFile", tls.KeyFile, "keyContent", tls.KeyContent)
}

// exactlyOneSource requires that a PEM input comes from either a file or
// inline content, never both.
func exactlyOneSource(what, fileField, file, contentField, content string) error {
	switch {
	case file == "" && content == "":
		return fmt.Errorf("%s is required (provide either %s or %s)", what, fileField, contentField)
	case file != "" && content != "":
		return fmt.Errorf("cannot specify both %s and %s - choose one", fileField, contentField)
	}
	return nil
}
