// pkg/render/engo/assets.go
package engo

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/EngoEngine/engo/common"
)

// AssetManager handles loading and managing game assets
type AssetManager struct {
	// Carrier sprite
	carrierSprite common.Drawable

	// Aircraft sprites by flight state
	aircraftSprites map[string]common.Drawable

	// Goal marker sprite
	goalSprite common.Drawable

	// UI textures
	backgroundTexture common.Drawable
}

// NewAssetManager creates a new asset manager
func NewAssetManager() *AssetManager {
	return &AssetManager{
		aircraftSprites: make(map[string]common.Drawable),
	}
}

// LoadAssets loads all game assets
func (am *AssetManager) LoadAssets() error {
	if err := am.loadCarrierSprite(); err != nil {
		return err
	}

	if err := am.loadAircraftSprites(); err != nil {
		return err
	}

	if err := am.loadGoalSprite(); err != nil {
		return err
	}

	return am.loadUIAssets()
}

// loadCarrierSprite creates the carrier sprite. Without image files the
// sprite is a simple hull shape pointing along +X.
func (am *AssetManager) loadCarrierSprite() error {
	am.carrierSprite = am.createSprite(16, 16, [][]int{
		{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0},
		{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0},
		{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0},
		{0, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 0, 0, 0},
		{0, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 0, 0},
		{0, 1, 1, 0, 0, 1, 1, 1, 1, 1, 0, 0, 1, 1, 1, 0},
		{0, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1},
		{0, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1},
		{0, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1},
		{0, 1, 1, 0, 0, 1, 1, 1, 1, 1, 0, 0, 1, 1, 1, 0},
		{0, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 0, 0},
		{0, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 0, 0, 0},
		{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0},
		{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0},
		{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0},
		{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0},
	})

	return nil
}

// loadAircraftSprites creates sprites for each flight state. All three use
// the same arrow shape, colored per state by the renderer.
func (am *AssetManager) loadAircraftSprites() error {
	arrowPattern := [][]int{
		{0, 0, 0, 0, 1, 0, 0, 0},
		{0, 0, 0, 0, 1, 1, 0, 0},
		{1, 1, 1, 1, 1, 1, 1, 0},
		{1, 1, 1, 1, 1, 1, 1, 1},
		{1, 1, 1, 1, 1, 1, 1, 0},
		{0, 0, 0, 0, 1, 1, 0, 0},
		{0, 0, 0, 0, 1, 0, 0, 0},
		{0, 0, 0, 0, 0, 0, 0, 0},
	}

	sprite := am.createSprite(8, 8, arrowPattern)
	am.aircraftSprites["takeoff"] = sprite
	am.aircraftSprites["patrol"] = sprite
	am.aircraftSprites["returning"] = sprite

	return nil
}

// loadGoalSprite creates the patrol goal marker sprite.
func (am *AssetManager) loadGoalSprite() error {
	am.goalSprite = am.createSprite(8, 8, [][]int{
		{0, 0, 0, 1, 1, 0, 0, 0},
		{0, 0, 1, 1, 1, 1, 0, 0},
		{0, 1, 1, 0, 0, 1, 1, 0},
		{1, 1, 0, 0, 0, 0, 1, 1},
		{1, 1, 0, 0, 0, 0, 1, 1},
		{0, 1, 1, 0, 0, 1, 1, 0},
		{0, 0, 1, 1, 1, 1, 0, 0},
		{0, 0, 0, 1, 1, 0, 0, 0},
	})

	return nil
}

// loadUIAssets loads UI-related assets
func (am *AssetManager) loadUIAssets() error {
	// Create a simple dotted sea background
	backgroundPattern := make([][]int, 64)
	for i := range backgroundPattern {
		backgroundPattern[i] = make([]int, 64)
		if i%8 == 0 && (i/8)%3 == 0 {
			backgroundPattern[i][i%64] = 1
		}
	}

	am.backgroundTexture = am.createSprite(64, 64, backgroundPattern)

	return nil
}

// createSprite creates a sprite from a 2D pattern
func (am *AssetManager) createSprite(width, height int, pattern [][]int) common.Drawable {
	img := am.createBaseImage(width, height)
	am.drawPatternOnImage(img, pattern, width, height)
	return am.convertToEngoTexture(img)
}

// createBaseImage creates a transparent RGBA image with the specified dimensions.
func (am *AssetManager) createBaseImage(width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), &image.Uniform{color.RGBA{0, 0, 0, 0}}, image.Point{}, draw.Src)
	return img
}

// drawPatternOnImage draws a 2D pixel pattern onto the provided RGBA image.
func (am *AssetManager) drawPatternOnImage(img *image.RGBA, pattern [][]int, width, height int) {
	for y, row := range pattern {
		if y >= height {
			break
		}
		for x, pixel := range row {
			if x >= width {
				break
			}
			if pixel == 1 {
				img.Set(x, y, color.RGBA{255, 255, 255, 255})
			}
		}
	}
}

// convertToEngoTexture converts an RGBA image to an Engo-compatible texture.
func (am *AssetManager) convertToEngoTexture(img *image.RGBA) common.Drawable {
	bounds := img.Bounds()
	nrgbaImg := image.NewNRGBA(bounds)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			nrgbaImg.Set(x, y, img.At(x, y))
		}
	}

	texture := common.NewImageObject(nrgbaImg)
	return common.NewTextureSingle(texture)
}

// GetCarrierSprite returns the carrier sprite
func (am *AssetManager) GetCarrierSprite() common.Drawable {
	return am.carrierSprite
}

// GetAircraftSprite returns the sprite for an aircraft flight state
func (am *AssetManager) GetAircraftSprite(flightState string) common.Drawable {
	if sprite, exists := am.aircraftSprites[flightState]; exists {
		return sprite
	}
	return am.aircraftSprites["patrol"] // Default fallback
}

// GetGoalSprite returns the patrol goal marker sprite
func (am *AssetManager) GetGoalSprite() common.Drawable {
	return am.goalSprite
}

// GetBackgroundTexture returns the background texture
func (am *AssetManager) GetBackgroundTexture() common.Drawable {
	return am.backgroundTexture
}
