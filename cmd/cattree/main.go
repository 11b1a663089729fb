// cattree — офлайн-инструмент для выгрузки GET /categories: строит дерево,
// путь к корню, путь наведения и текстовую отрисовку с раскрытыми узлами.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
