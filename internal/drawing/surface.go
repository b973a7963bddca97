package drawing

import (
	"bytes"
	"encoding/base64"
	"errors"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"strings"
	"sync"
)

const dataURLPrefix = "data:image/png;base64,"

// Traço fixo: mesma cor e espessura para todos os desenhos.
var strokeColor = color.RGBA{R: 0x5A, G: 0x3D, B: 0x85, A: 0xFF}

const strokeWidth = 4

// ErrInvalidSize indica dimensões inválidas para a superfície.
var ErrInvalidSize = errors.New("desenho: dimensões inválidas")

// Surface é a superfície de desenho à mão livre de um território. O bitmap é
// o próprio estado: cada traço é estampado direto nos pixels, sem registro
// vetorial. Entrada de ponteiro só tem efeito enquanto o território estiver
// ocupado — conferido no início do traço e a cada amostra, caso o status mude
// no meio de um traço.
type Surface struct {
	mu       sync.Mutex
	img      *image.RGBA
	occupied func() bool
	save     func(dataURL string)
	drawing  bool
	last     image.Point
}

// NewSurface cria a superfície zerada e restaura de forma síncrona qualquer
// desenho salvo antes de aceitar o primeiro traço. Dados salvos que não
// decodificam são ignorados e o bitmap começa limpo.
func NewSurface(width, height int, saved string, occupied func() bool, save func(string)) (*Surface, error) {
	if width <= 0 || height <= 0 {
		return nil, ErrInvalidSize
	}

	s := &Surface{
		img:      image.NewRGBA(image.Rect(0, 0, width, height)),
		occupied: occupied,
		save:     save,
	}

	if saved != "" {
		if prior, err := decodeDataURL(saved); err == nil {
			draw.Draw(s.img, prior.Bounds(), prior, image.Point{}, draw.Over)
		}
	}

	return s, nil
}

// PointerDown inicia um traço na posição dada. Ignorado se o território não
// estiver ocupado.
func (s *Surface) PointerDown(x, y int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.occupied() {
		return
	}
	s.drawing = true
	s.last = image.Point{X: x, Y: y}
	s.stampDot(s.last)
}

// PointerMove acrescenta uma amostra ao traço em andamento, ligando-a à
// anterior. Amostras fora de um traço ou com o território liberado no meio do
// caminho são ignoradas.
func (s *Surface) PointerMove(x, y int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.drawing || !s.occupied() {
		return
	}
	next := image.Point{X: x, Y: y}
	s.stampLine(s.last, next)
	s.last = next
}

// PointerUp encerra o traço e persiste o bitmap inteiro como data URL via o
// callback de salvamento. Se o território deixou de estar ocupado durante o
// traço, nada é salvo.
func (s *Surface) PointerUp() {
	s.mu.Lock()
	if !s.drawing {
		s.mu.Unlock()
		return
	}
	s.drawing = false
	if !s.occupied() {
		s.mu.Unlock()
		return
	}
	encoded := s.encode()
	s.mu.Unlock()

	s.save(encoded)
}

// Clear apaga o bitmap e anula o desenho salvo imediatamente.
func (s *Surface) Clear() {
	s.mu.Lock()
	bounds := s.img.Bounds()
	s.img = image.NewRGBA(bounds)
	s.drawing = false
	s.mu.Unlock()

	s.save("")
}

// Snapshot devolve o bitmap atual codificado como data URL.
func (s *Surface) Snapshot() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.encode()
}

func (s *Surface) encode() string {
	var buf bytes.Buffer
	_ = png.Encode(&buf, s.img)
	return dataURLPrefix + base64.StdEncoding.EncodeToString(buf.Bytes())
}

// stampLine liga dois pontos estampando discos ao longo do segmento, o que dá
// extremidades arredondadas como o traço do canvas original.
func (s *Surface) stampLine(from, to image.Point) {
	dx := abs(to.X - from.X)
	dy := abs(to.Y - from.Y)
	steps := dx
	if dy > steps {
		steps = dy
	}
	if steps == 0 {
		s.stampDot(to)
		return
	}
	for i := 0; i <= steps; i++ {
		x := from.X + (to.X-from.X)*i/steps
		y := from.Y + (to.Y-from.Y)*i/steps
		s.stampDot(image.Point{X: x, Y: y})
	}
}

func (s *Surface) stampDot(p image.Point) {
	radius := strokeWidth / 2
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			if dx*dx+dy*dy > radius*radius {
				continue
			}
			pt := image.Point{X: p.X + dx, Y: p.Y + dy}
			if pt.In(s.img.Bounds()) {
				s.img.SetRGBA(pt.X, pt.Y, strokeColor)
			}
		}
	}
}

func decodeDataURL(data string) (image.Image, error) {
	raw := strings.TrimPrefix(data, dataURLPrefix)
	decoded, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return nil, err
	}
	img, err := png.Decode(bytes.NewReader(decoded))
	if err != nil {
		return nil, err
	}
	return img, nil
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
