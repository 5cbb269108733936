package helper

import (
	"github.com/golang/geo/s2"

	"QuestNav-App/internal/domain/model"
)

const earthRadiusMeters = 6371000.0

// HaversineDistanceMeters は2地点間の大円距離を計算する (m)
func HaversineDistanceMeters(p1, p2 model.LatLng) float64 {
	a := s2.LatLngFromDegrees(p1.Lat, p1.Lng)
	b := s2.LatLngFromDegrees(p2.Lat, p2.Lng)
	return a.Distance(b).Radians() * earthRadiusMeters
}

// DisplacementExceeds は from から to への移動量がしきい値を超えるかチェックする。
// GPSジッターによる冗長なクエリを避けるための判定に使用する
func DisplacementExceeds(from, to model.LatLng, thresholdMeters float64) bool {
	return HaversineDistanceMeters(from, to) >= thresholdMeters
}
