package response

// 直接使用 HTTP 语义的状态码
const (
	CodeOK          = 200
	CodeCreated     = 201
	CodeBadRequest  = 400
	CodeNotFound    = 404
	CodeConflict    = 409
	CodeServerError = 500
)

// StatusMsgMap 集中管理 code - msg
var StatusMsgMap = map[int]string{
	CodeOK:          "OK",
	CodeCreated:     "Created",
	CodeBadRequest:  "Bad Request",
	CodeNotFound:    "Not Found",
	CodeConflict:    "Conflict",
	CodeServerError: "Internal Server Error",
}
