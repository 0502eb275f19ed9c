package utils

import (
	"strings"

	"github.com/google/uuid"
)

// TempIDPrefix 客户端本地新建行的占位 id 前缀，保存时据此区分 create / update
const TempIDPrefix = "temp-"

func NewID() string { return uuid.NewString() }

func IsTempID(id string) bool { return strings.HasPrefix(id, TempIDPrefix) }
