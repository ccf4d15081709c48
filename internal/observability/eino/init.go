// Package eino 注册 Eino 全局回调，统一采集模型调用的链路、指标与用量
package eino

import (
	"sync"

	einocallbacks "github.com/cloudwego/eino/callbacks"
	cbtemplate "github.com/cloudwego/eino/utils/callbacks"

	"bizprompt-api/internal/domain/service"
)

var initOnce sync.Once

// Init 注册全局 callbacks（进程级一次），recorder 可为空
func Init(recorder service.LLMUsageRecorder) {
	initOnce.Do(func() {
		einocallbacks.AppendGlobalHandlers(newHandler(recorder))
	})
}

func newHandler(recorder service.LLMUsageRecorder) einocallbacks.Handler {
	return cbtemplate.NewHandlerHelper().
		ChatModel(newChatModelCallbackHandler(recorder)).
		Handler()
}
