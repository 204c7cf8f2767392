package service

import "errors"

// ============================================================
// Notices
// ============================================================

type NoticeKind string

const (
	NoticeSuccess NoticeKind = "success"
	NoticeError   NoticeKind = "error"
	NoticeWarning NoticeKind = "warning"
	NoticeInfo    NoticeKind = "info"
)

// Notice - сообщение о результате операции. Показывается вызывающим один раз.
type Notice struct {
	Kind NoticeKind `json:"tipo"`
	Text string     `json:"mensaje"`
}

func (n Notice) IsZero() bool {
	return n.Text == ""
}

func success(text string) Notice {
	return Notice{Kind: NoticeSuccess, Text: text}
}

func info(text string) Notice {
	return Notice{Kind: NoticeInfo, Text: text}
}

// NoticeFor строит сообщение об ошибке для пользователя.
// Подробности сбоев хранилища не раскрываются.
func NoticeFor(err error) Notice {
	var vErr *ValidationError
	switch {
	case err == nil:
		return Notice{}
	case errors.As(err, &vErr):
		return Notice{Kind: NoticeError, Text: vErr.Message}
	case errors.Is(err, ErrNotFound):
		return Notice{Kind: NoticeError, Text: "El registro solicitado no existe o ha sido eliminado"}
	case errors.Is(err, ErrExportUnsupported):
		return Notice{Kind: NoticeInfo, Text: "Formato de exportación no disponible"}
	default:
		return Notice{Kind: NoticeError, Text: "Ocurrió un error al procesar la solicitud. Inténtelo de nuevo más tarde"}
	}
}
