package vibe

import "math"

// DefaultOrbitRadius is the distance of each stem from the mix core
const DefaultOrbitRadius = 100.0

// Point is a position relative to the mix core
type Point struct {
	X, Y float64
}

// OrbitPosition places stem i of n on the circle at angle (i/n)*2π
func OrbitPosition(i, n int, radius float64) Point {
	if n <= 0 {
		return Point{}
	}
	angle := float64(i) / float64(n) * 2 * math.Pi
	return Point{
		X: math.Cos(angle) * radius,
		Y: math.Sin(angle) * radius,
	}
}

// OrbitLayout returns the positions of n stems in stored order
func OrbitLayout(n int, radius float64) []Point {
	points := make([]Point, n)
	for i := range points {
		points[i] = OrbitPosition(i, n, radius)
	}
	return points
}
