// Package debounce retrasa la ejecución de una acción por clave y la cancela si se vuelve a
// disparar antes de que venza el plazo. Lo usan el autoguardado de borradores y la
// regeneración de la vista previa PDF.
package debounce

import (
	"sync"
	"time"
)

// Debouncer agrupa disparos por clave: solo se ejecuta el último de cada ráfaga.
type Debouncer struct {
	delay time.Duration

	mu      sync.Mutex
	pending map[string]*entry
	closed  bool
}

type entry struct {
	timer *time.Timer
	fn    func()
}

// New crea un debouncer con el plazo indicado.
func New(delay time.Duration) *Debouncer {
	return &Debouncer{delay: delay, pending: make(map[string]*entry)}
}

// Trigger programa fn para la clave key; un disparo previo pendiente se descarta.
// Devuelve false si el debouncer ya está cerrado.
func (d *Debouncer) Trigger(key string, fn func()) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return false
	}
	if prev, ok := d.pending[key]; ok {
		prev.timer.Stop()
	}
	e := &entry{fn: fn}
	e.timer = time.AfterFunc(d.delay, func() { d.fire(key, e) })
	d.pending[key] = e
	return true
}

func (d *Debouncer) fire(key string, e *entry) {
	d.mu.Lock()
	cur, ok := d.pending[key]
	if !ok || cur != e {
		// reemplazado por un disparo posterior
		d.mu.Unlock()
		return
	}
	delete(d.pending, key)
	d.mu.Unlock()
	e.fn()
}

// Cancel descarta el disparo pendiente de key. Devuelve true si había uno.
func (d *Debouncer) Cancel(key string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	e, ok := d.pending[key]
	if !ok {
		return false
	}
	e.timer.Stop()
	delete(d.pending, key)
	return true
}

// Pending informa si key tiene un disparo pendiente.
func (d *Debouncer) Pending(key string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, ok := d.pending[key]
	return ok
}

// Flush ejecuta de inmediato todas las acciones pendientes (en la goroutine del llamador)
// y las retira. Se usa en el apagado ordenado.
func (d *Debouncer) Flush() {
	d.mu.Lock()
	fns := make([]func(), 0, len(d.pending))
	for key, e := range d.pending {
		// si el timer ya venció, fire verá la entrada retirada y no repetirá fn
		e.timer.Stop()
		fns = append(fns, e.fn)
		delete(d.pending, key)
	}
	d.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
}

// Close ejecuta lo pendiente y rechaza disparos posteriores.
func (d *Debouncer) Close() {
	d.Flush()
	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()
}
