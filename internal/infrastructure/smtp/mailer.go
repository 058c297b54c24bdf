package smtp

import (
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"mime"
	"mime/quotedprintable"
	"net"
	"net/mail"
	"net/smtp"
	"net/textproto"
	"strings"
	"sync"
	"time"

	"github.com/go-notify-gateway/internal/config"
	"github.com/go-notify-gateway/internal/domain"
	"github.com/go-notify-gateway/internal/pkg/id"
	"go.uber.org/zap"
)

const (
	implicitTLSPort = "465"
	dialTimeout     = 10 * time.Second
	ioTimeout       = 30 * time.Second
)

// Relay sends mail over one SMTP session kept open for the process lifetime.
// Sends are serialised on the session; a dead session is redialled on the
// next send.
type Relay struct {
	host     string
	port     string
	username string
	password string
	from     mail.Address
	log      *zap.Logger

	mu     sync.Mutex
	conn   net.Conn
	client *smtp.Client
}

func NewRelay(cfg *config.Config, log *zap.Logger) *Relay {
	return &Relay{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		username: cfg.MailUsername,
		password: cfg.MailPassword,
		from:     mail.Address{Name: cfg.MailFromName, Address: cfg.MailFrom},
		log:      log,
	}
}

// Send delivers e to its single recipient.
func (r *Relay) Send(ctx context.Context, e domain.Email) (*domain.MailResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, err := r.session(ctx)
	if err != nil {
		return nil, err
	}
	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = time.Now().Add(ioTimeout)
	}
	_ = r.conn.SetDeadline(deadline)

	messageID := id.MessageID(domainOf(r.from.Address))
	msg, err := r.buildMessage(e, messageID)
	if err != nil {
		return nil, err
	}
	if err := deliver(c, r.from.Address, e.To, msg); err != nil {
		r.resetOrDrop(c, err)
		return nil, fmt.Errorf("smtp send to %s: %w", e.To, err)
	}
	return &domain.MailResult{
		Accepted:  []string{e.To},
		Rejected:  []string{},
		Envelope:  domain.MailEnvelope{From: r.from.Address, To: []string{e.To}},
		MessageID: messageID,
	}, nil
}

// Close ends the session with QUIT. Safe to call when no session is open.
func (r *Relay) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.client == nil {
		return nil
	}
	err := r.client.Quit()
	if err != nil {
		_ = r.client.Close()
	}
	r.client, r.conn = nil, nil
	return err
}

// session returns the open client after a NOOP probe, or dials a new one.
func (r *Relay) session(ctx context.Context) (*smtp.Client, error) {
	if r.client != nil {
		_ = r.conn.SetDeadline(time.Now().Add(ioTimeout))
		if err := r.client.Noop(); err == nil {
			return r.client, nil
		}
		r.log.Info("smtp session lost, redialling", zap.String("host", r.host))
		r.drop()
	}
	if err := r.dial(ctx); err != nil {
		return nil, err
	}
	return r.client, nil
}

func (r *Relay) dial(ctx context.Context) error {
	addr := net.JoinHostPort(r.host, r.port)
	tlsCfg := &tls.Config{ServerName: r.host, MinVersion: tls.VersionTLS12}
	nd := &net.Dialer{Timeout: dialTimeout}

	var conn net.Conn
	var err error
	if r.port == implicitTLSPort {
		conn, err = (&tls.Dialer{NetDialer: nd, Config: tlsCfg}).DialContext(ctx, "tcp", addr)
	} else {
		conn, err = nd.DialContext(ctx, "tcp", addr)
	}
	if err != nil {
		return fmt.Errorf("smtp dial %s: %w", addr, err)
	}
	_ = conn.SetDeadline(time.Now().Add(ioTimeout))

	c, err := smtp.NewClient(conn, r.host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("smtp handshake %s: %w", addr, err)
	}
	if r.port != implicitTLSPort {
		if ok, _ := c.Extension("STARTTLS"); ok {
			if err := c.StartTLS(tlsCfg); err != nil {
				c.Close()
				return fmt.Errorf("smtp starttls: %w", err)
			}
		}
	}
	if r.username != "" {
		if err := c.Auth(smtp.PlainAuth("", r.username, r.password, r.host)); err != nil {
			c.Close()
			return fmt.Errorf("smtp auth: %w", err)
		}
	}
	r.conn, r.client = conn, c
	r.log.Debug("smtp session opened", zap.String("addr", addr))
	return nil
}

// resetOrDrop keeps the session after a server reply rejecting this message,
// resetting the transaction with RSET. Transport errors drop the session.
func (r *Relay) resetOrDrop(c *smtp.Client, err error) {
	var reply *textproto.Error
	if errors.As(err, &reply) {
		if rerr := c.Reset(); rerr == nil {
			return
		}
	}
	r.drop()
}

func (r *Relay) drop() {
	if r.client != nil {
		_ = r.client.Close()
	}
	r.client, r.conn = nil, nil
}

func deliver(c *smtp.Client, from, to string, msg []byte) error {
	if err := c.Mail(from); err != nil {
		return err
	}
	if err := c.Rcpt(to); err != nil {
		return err
	}
	w, err := c.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(msg); err != nil {
		return err
	}
	return w.Close()
}

func (r *Relay) buildMessage(e domain.Email, messageID string) ([]byte, error) {
	var b bytes.Buffer
	fmt.Fprintf(&b, "From: %s\r\n", r.from.String())
	fmt.Fprintf(&b, "To: %s\r\n", e.To)
	fmt.Fprintf(&b, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", e.Subject))
	fmt.Fprintf(&b, "Date: %s\r\n", time.Now().Format(time.RFC1123Z))
	fmt.Fprintf(&b, "Message-ID: %s\r\n", messageID)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
	b.WriteString("Content-Transfer-Encoding: quoted-printable\r\n\r\n")

	qp := quotedprintable.NewWriter(&b)
	if _, err := qp.Write([]byte(e.HTML)); err != nil {
		return nil, fmt.Errorf("encode mail body: %w", err)
	}
	if err := qp.Close(); err != nil {
		return nil, fmt.Errorf("encode mail body: %w", err)
	}
	return b.Bytes(), nil
}

func domainOf(addr string) string {
	if i := strings.LastIndexByte(addr, '@'); i >= 0 {
		return addr[i+1:]
	}
	return ""
}
