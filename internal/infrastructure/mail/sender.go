// Package mail envía los correos de órdenes por SMTP con gomail.
package mail

import (
	"context"
	"fmt"
	"io"

	"gopkg.in/gomail.v2"

	"github.com/jhoicas/po-console/pkg/config"
)

// Attachment adjunto en memoria.
type Attachment struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Message correo a enviar. HTMLBody es obligatorio; el texto plano se omite.
type Message struct {
	To          []string
	CC          []string
	Subject     string
	HTMLBody    string
	Attachments []Attachment
}

// Sender emisor SMTP.
type Sender struct {
	dialer *gomail.Dialer
	from   string
}

// NewSender construye el emisor. Devuelve nil si no hay host SMTP configurado.
func NewSender(cfg config.SMTPConfig) *Sender {
	if cfg.Host == "" {
		return nil
	}
	return &Sender{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password),
		from:   cfg.From,
	}
}

// Build arma el mensaje gomail (expuesto para tests).
func (s *Sender) Build(msg Message) *gomail.Message {
	m := gomail.NewMessage(gomail.SetCharset("UTF-8"))
	m.SetHeader("From", s.from)
	m.SetHeader("To", msg.To...)
	if len(msg.CC) > 0 {
		m.SetHeader("Cc", msg.CC...)
	}
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/html", msg.HTMLBody)
	for _, a := range msg.Attachments {
		data := a.Data
		m.Attach(a.Filename,
			gomail.SetCopyFunc(func(w io.Writer) error {
				_, err := w.Write(data)
				return err
			}),
			gomail.SetHeader(map[string][]string{"Content-Type": {a.ContentType}}),
		)
	}
	return m
}

// Send envía el mensaje. gomail no acepta contexto; se respeta una cancelación previa.
func (s *Sender) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(msg.To) == 0 {
		return fmt.Errorf("mail: sin destinatarios")
	}
	if err := s.dialer.DialAndSend(s.Build(msg)); err != nil {
		return fmt.Errorf("mail: enviar: %w", err)
	}
	return nil
}
