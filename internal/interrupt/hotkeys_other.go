//go:build !windows

package interrupt

// StartMonitoring без глобального хука клавиатуры: скрипт стартует сразу,
// остановка через сигнал процесса или действие "stop" в базе
func (c *Controller) StartMonitoring() {
	c.logger.Warn("⚠️ Горячие клавиши доступны только в Windows, запуск без ожидания")
	c.RequestStart()
}
