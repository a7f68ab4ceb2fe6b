package fixture

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"sync"

	"github.com/openhue/openhue-go"
)

// HueSink mirrors the fixture onto Hue lights reached through one or
// more bridges.
type HueSink struct {
	mu      sync.RWMutex
	log     *slog.Logger
	bridges map[string]*hueBridge
}

type hueBridge struct {
	ip     string
	client *openhue.ClientWithResponses
	lights []string
}

func NewHueSink(logger *slog.Logger) *HueSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &HueSink{
		log:     logger.With("sink", KindHue),
		bridges: make(map[string]*hueBridge),
	}
}

func (s *HueSink) Kind() Kind {
	return KindHue
}

// AddBridge registers a bridge by IP and application key. Bridges serve
// self-signed certificates, hence the insecure transport.
func (s *HueSink) AddBridge(ip, appKey string) error {
	httpClient := &http.Client{
		Transport: &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		},
	}

	client, err := openhue.NewClientWithResponses(
		fmt.Sprintf("https://%s", ip),
		openhue.WithHTTPClient(httpClient),
		openhue.WithRequestEditorFn(func(ctx context.Context, req *http.Request) error {
			req.Header.Set("hue-application-key", appKey)
			return nil
		}),
	)
	if err != nil {
		return fmt.Errorf("hue client for %s: %w", ip, err)
	}

	s.mu.Lock()
	s.bridges[ip] = &hueBridge{ip: ip, client: client}
	s.mu.Unlock()
	return nil
}

// Refresh queries every bridge for its lights. Returns the total light
// count afterward.
func (s *HueSink) Refresh(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := 0
	for ip, b := range s.bridges {
		resp, err := b.client.GetLightsWithResponse(ctx)
		if err != nil {
			s.log.Warn("get lights failed", "bridge", ip, "err", err)
			continue
		}
		if resp.JSON200 == nil || resp.JSON200.Data == nil {
			s.log.Warn("bridge returned no light data", "bridge", ip)
			continue
		}

		b.lights = b.lights[:0]
		for _, l := range *resp.JSON200.Data {
			if l.Id == nil {
				continue
			}
			b.lights = append(b.lights, *l.Id)
		}
		total += len(b.lights)
		s.log.Info("bridge refreshed", "bridge", ip, "lights", len(b.lights))
	}
	return total, nil
}

func (s *HueSink) snapshot() []*hueBridge {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*hueBridge, 0, len(s.bridges))
	for _, b := range s.bridges {
		out = append(out, b)
	}
	return out
}

func (s *HueSink) Apply(ctx context.Context, c RGB) error {
	on := c != Off
	_, _, v := c.HSV()
	brightness := openhue.Brightness(v * 100.0)
	xy := rgbToXY(c)
	x := float32(xy[0])
	y := float32(xy[1])

	body := openhue.UpdateLightJSONRequestBody{
		On:      &openhue.On{On: &on},
		Dimming: &openhue.Dimming{Brightness: &brightness},
		Color: &openhue.Color{
			Xy: &openhue.GamutPosition{X: &x, Y: &y},
		},
	}

	for _, b := range s.snapshot() {
		for _, lightID := range b.lights {
			resp, err := b.client.UpdateLightWithResponse(ctx, lightID, body)
			if err != nil {
				s.log.Warn("update light failed", "bridge", b.ip, "light", lightID, "err", err)
				continue
			}
			if resp.HTTPResponse != nil && resp.HTTPResponse.StatusCode != 200 {
				s.log.Warn("bridge rejected update", "bridge", b.ip, "light", lightID,
					"status", resp.HTTPResponse.StatusCode)
			}
		}
	}
	return nil
}

func (s *HueSink) Off(ctx context.Context) error {
	off := false
	body := openhue.UpdateLightJSONRequestBody{
		On: &openhue.On{On: &off},
	}
	for _, b := range s.snapshot() {
		for _, lightID := range b.lights {
			if _, err := b.client.UpdateLightWithResponse(ctx, lightID, body); err != nil {
				s.log.Warn("turn off failed", "bridge", b.ip, "light", lightID, "err", err)
			}
		}
	}
	return nil
}

func (s *HueSink) Close() error {
	return nil
}

// rgbToXY converts sRGB to the CIE xy chromaticity the bridge expects.
func rgbToXY(c RGB) [2]float64 {
	rf := gammaExpand(float64(c.R) / 255.0)
	gf := gammaExpand(float64(c.G) / 255.0)
	bf := gammaExpand(float64(c.B) / 255.0)

	x := rf*0.664511 + gf*0.154324 + bf*0.162028
	y := rf*0.283881 + gf*0.668433 + bf*0.047685
	z := rf*0.000088 + gf*0.072310 + bf*0.986039

	sum := x + y + z
	if sum == 0 {
		// D65 white point for black, matching what the bridge reports.
		return [2]float64{0.3127, 0.3290}
	}
	return [2]float64{x / sum, y / sum}
}

func gammaExpand(v float64) float64 {
	if v > 0.04045 {
		return math.Pow((v+0.055)/1.055, 2.4)
	}
	return v / 12.92
}
