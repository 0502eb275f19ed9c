package response

// Resp 统一响应信封；Data 为空时省略，分页字段仅列表接口携带
type Resp struct {
	StatusCode  int    `json:"statusCode"`
	Message     string `json:"message"`
	Data        any    `json:"data,omitempty"`
	CurrentPage *int   `json:"currentPage,omitempty"`
	TotalPages  *int   `json:"totalPages,omitempty"`
}

func New(code int, msg string, data any) Resp {
	return Resp{StatusCode: code, Message: msg, Data: data}
}

// OK 成功响应（可传自定义 msg 覆盖默认）
func OK(msg string, data any) Resp {
	if msg == "" {
		msg = StatusMsgMap[CodeOK]
	}
	return New(CodeOK, msg, data)
}

// Created 201 响应
func Created(msg string, data any) Resp {
	return New(CodeCreated, msg, data)
}

// Page 列表响应，携带分页元数据
func Page(msg string, data any, currentPage, totalPages int) Resp {
	r := OK(msg, data)
	r.CurrentPage = &currentPage
	r.TotalPages = &totalPages
	return r
}

// Error 失败响应
func Error(code int, customMsg string) Resp {
	msg := StatusMsgMap[code]
	if customMsg != "" {
		msg = customMsg
	}
	return New(code, msg, nil)
}
