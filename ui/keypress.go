package ui

import (
	"context"
	"sync"

	"github.com/eiannone/keyboard"
)

const keyEsc rune = 27

var (
	keyCh     chan rune
	startOnce sync.Once
)

// StartKeyEvents returns a channel of single key presses read without Enter.
// When no keyboard is available the channel never emits.
func StartKeyEvents() <-chan rune {
	startOnce.Do(func() {
		keyCh = make(chan rune, 64)
		if err := keyboard.Open(); err != nil {
			L().Debug("keyboard unavailable", "err", err)
			return
		}
		go func() {
			defer keyboard.Close()
			defer close(keyCh)
			for {
				char, key, err := keyboard.GetKey()
				if err != nil {
					return
				}
				r := char
				switch key {
				case 0:
				case keyboard.KeyEsc, keyboard.KeyCtrlC:
					r = keyEsc
				case keyboard.KeyEnter:
					r = '\n'
				default:
					continue
				}
				select {
				case keyCh <- r:
				default:
				}
			}
		}()
	})
	return keyCh
}

// DrainKeys consumes any immediately available keys.
func DrainKeys() {
	ch := StartKeyEvents()
	for {
		select {
		case <-ch:
		default:
			return
		}
	}
}

// WaitForKey blocks until a key is pressed or ctx is done. Esc and Ctrl+C
// are both reported as 27.
func WaitForKey(ctx context.Context) (rune, error) {
	DrainKeys()
	select {
	case r, ok := <-StartKeyEvents():
		if !ok {
			return 0, context.Canceled
		}
		return r, nil
	case <-ctx.Done():
		return 0, ctx.Err()
	}
}
