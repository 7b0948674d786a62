//go:build windows

package interrupt

import (
	"github.com/moutend/go-hook/pkg/keyboard"
	"github.com/moutend/go-hook/pkg/types"
)

// StartMonitoring запускает мониторинг горячих клавиш: Shift+Enter старт, Q стоп
func (c *Controller) StartMonitoring() {
	go c.monitorHotkeys()
}

// monitorHotkeys мониторит горячие клавиши
func (c *Controller) monitorHotkeys() {
	eventChan := make(chan types.KeyboardEvent, 100)
	if err := keyboard.Install(nil, eventChan); err != nil {
		c.logger.LogError(err, "не удалось установить хук клавиатуры")
		return
	}
	defer keyboard.Uninstall()

	c.logger.Info("⌨️ Shift+Enter запуск, Q остановка")
	shiftPressed := false

	for event := range eventChan {
		isShift := event.VKCode == types.VK_LSHIFT || event.VKCode == types.VK_RSHIFT
		switch event.Message {
		case types.WM_KEYDOWN:
			switch {
			case isShift:
				shiftPressed = true
			case event.VKCode == types.VK_RETURN && shiftPressed:
				c.RequestStart()
			case event.VKCode == types.VK_Q:
				// Q только прерывает, если скрипт запущен
				c.Stop()
			}
		case types.WM_KEYUP:
			if isShift {
				shiftPressed = false
			}
		}
	}
}
