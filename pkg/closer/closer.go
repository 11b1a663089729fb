package closer

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"
)

// Closer обеспечивает потокобезопасное закрытие ресурсов в порядке, обратном регистрации.
type Closer struct {
	items         []item
	mu            sync.Mutex
	once          sync.Once
	forcedTimeout time.Duration
}

// Func — сигнатура функции закрытия ресурса.
type Func func(ctx context.Context) error

type item struct {
	name string
	f    Func
}

// NewCloser создает новый экземпляр Closer.
// forcedTimeout — время на принудительное закрытие оставшихся ресурсов, если контекст Close истёк.
func NewCloser(forcedTimeout time.Duration) *Closer {
	const defaultForcedTimeout = 2 * time.Second

	if forcedTimeout <= 0 {
		forcedTimeout = defaultForcedTimeout
	}

	return &Closer{forcedTimeout: forcedTimeout}
}

// Add регистрирует функцию закрытия. name попадает в текст ошибки.
func (c *Closer) Add(name string, f Func) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = append(c.items, item{name: name, f: f})
}

// Close закрывает ресурсы (LIFO). Повторные вызовы ничего не делают и возвращают nil.
// Если ctx отменяется раньше, оставшиеся ресурсы закрываются параллельно с forcedTimeout.
func (c *Closer) Close(ctx context.Context) error {
	var err error
	c.once.Do(func() {
		c.mu.Lock()
		items := c.items
		c.mu.Unlock()

		stopIdx, errs := c.gracefulClose(ctx, items)
		if stopIdx < 0 {
			if len(errs) > 0 {
				err = fmt.Errorf("shutdown finished with error(s):\n%s", strings.Join(errs, "\n"))
			}
			return
		}

		errs = append(errs, c.forcedClose(items[:stopIdx+1])...)
		err = fmt.Errorf(
			"shutdown interrupted after %d/%d funcs:\n%s",
			len(items)-1-stopIdx,
			len(items),
			strings.Join(errs, "\n"),
		)
	})

	return err
}

// gracefulClose возвращает -1, если все функции отработали, иначе индекс первой незакрытой.
func (c *Closer) gracefulClose(ctx context.Context, items []item) (int, []string) {
	var errs []string
	for i := len(items) - 1; i >= 0; i-- {
		it := items[i]
		done := make(chan error, 1)

		go func() {
			done <- it.f(ctx)
		}()

		select {
		case err := <-done:
			if err != nil {
				errs = append(errs, fmt.Sprintf("[!] %s: %v", it.name, err))
			}
		case <-ctx.Done():
			return i, errs
		}
	}

	return -1, errs
}

func (c *Closer) forcedClose(items []item) []string {
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []string
	)

	ctx, cancel := context.WithTimeout(context.Background(), c.forcedTimeout)
	defer cancel()

	for _, it := range items {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := it.f(ctx); err != nil {
				mu.Lock()
				errs = append(errs, fmt.Sprintf("[FORCED] %s: %v", it.name, err))
				mu.Unlock()
			}
		}()
	}

	wg.Wait()
	return errs
}
