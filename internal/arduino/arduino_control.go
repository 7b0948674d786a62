package arduino

import (
	"bufio"
	"fmt"
	"sync"
)

// Arduino эмулятор мыши и клавиатуры на плате, подключённой по serial
type Arduino struct {
	port   Port
	reader *bufio.Reader
	mu     sync.Mutex
}

func New(port Port) *Arduino {
	return &Arduino{port: port, reader: bufio.NewReader(port)}
}

// Click левый клик по экранным координатам
func (a *Arduino) Click(x, y int) error {
	return a.ProcessAndWait(fmt.Sprintf("click:%d,%d", x, y))
}

// RightClick правый клик, ставит флаг
func (a *Arduino) RightClick(x, y int) error {
	return a.ProcessAndWait(fmt.Sprintf("right_click:%d,%d", x, y))
}

// Move перевод курсора без клика
func (a *Arduino) Move(x, y int) error {
	return a.ProcessAndWait(fmt.Sprintf("move:%d,%d", x, y))
}

func (a *Arduino) KeyDown(key string) error {
	return a.ProcessAndWait("key_down:" + key)
}

func (a *Arduino) KeyUp(key string) error {
	return a.ProcessAndWait("key_up:" + key)
}

// PressKey нажатие и отпускание клавиши
func (a *Arduino) PressKey(key string) error {
	if err := a.KeyDown(key); err != nil {
		return err
	}
	return a.KeyUp(key)
}
