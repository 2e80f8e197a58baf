package mail

type DemoEmailData struct {
	CompanyName string
	SenderName  string
	DemoLink    string
	PixelURL    string
}

type EmailSender struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}
