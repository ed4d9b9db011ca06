package entity

// Canales de notificación soportados.
const ChannelEmail = "email"

// Attachment adjunto de una notificación.
type Attachment struct {
	Content     []byte
	Filename    string
	ContentType string
	Disposition string // attachment, inline
}

// Notification mensaje a despachar: plantilla + destinatario + datos.
type Notification struct {
	To          string
	Channel     string
	Template    string
	Data        map[string]any
	Attachments []Attachment
}
