package emailService

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"log"
	"net/smtp"
)

const (
	subjectVerifyEmail  = "Action Required: Please Verify Your Email"
	templateVerifyEmail = "verify_email.html"
)

//go:embed templates/*.html
var templatesFS embed.FS

type EmailData interface {
	TemplateFileName() string
	Subject() string
}

type EmailSender interface {
	QueueEmail(to string, data EmailData)
}

type VerifyEmailData struct {
	UserName  string
	VerifyURL string
}

func (v VerifyEmailData) TemplateFileName() string {
	return templateVerifyEmail
}

func (v VerifyEmailData) Subject() string {
	return subjectVerifyEmail
}

type Config struct {
	From     string
	Password string
	SMTPHost string
	SMTPPort string
	UseMock  bool
}

type EmailService struct {
	cfg       Config
	taskQueue chan EmailTask
}

type EmailTask struct {
	to           string
	templateFile string
	data         EmailData
	subject      string
}

func NewEmailService(cfg Config) *EmailService {
	s := &EmailService{
		cfg:       cfg,
		taskQueue: make(chan EmailTask, 100),
	}
	go s.worker()
	return s
}

func (s *EmailService) worker() {
	for task := range s.taskQueue {
		err := s.sendTemplatedEmail(task.to, task.templateFile, task.data, task.subject)
		if err != nil {
			log.Printf("Error sending email to %s: %v", task.to, err)
		}
	}
}

func (s *EmailService) QueueEmail(to string, data EmailData) {
	s.taskQueue <- EmailTask{to, data.TemplateFileName(), data, data.Subject()}
}

func (s *EmailService) sendTemplatedEmail(to, templateFileName string, data EmailData, subject string) error {
	tmpl, err := template.ParseFS(templatesFS, "templates/"+templateFileName)
	if err != nil {
		return fmt.Errorf("error parsing template: %v", err)
	}

	var body bytes.Buffer
	err = tmpl.Execute(&body, data)
	if err != nil {
		return fmt.Errorf("error executing template: %v", err)
	}

	if s.cfg.UseMock {
		log.Printf("[mock email] to=%s subject=%q body=%d bytes", to, subject, body.Len())
		return nil
	}

	message := []byte("Subject: " + subject + "\r\n" +
		"MIME-version: 1.0;\r\n" +
		"Content-Type: text/html; charset=\"UTF-8\";\r\n\r\n" +
		body.String())

	auth := smtp.PlainAuth("", s.cfg.From, s.cfg.Password, s.cfg.SMTPHost)
	err = smtp.SendMail(s.cfg.SMTPHost+":"+s.cfg.SMTPPort, auth, s.cfg.From, []string{to}, message)
	if err != nil {
		return fmt.Errorf("error sending email: %v", err)
	}
	return nil
}
