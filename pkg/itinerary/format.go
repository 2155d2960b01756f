package itinerary

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

const (
	arrow = " → "

	walkLabel    = "도보"
	unknownLabel = "미상"

	serviceOperating = "운행 중"
	serviceEnded     = "운행 종료"

	notFoundMessage = "조건에 맞는 대중교통 경로를 찾을 수 없습니다."
	failurePrefix   = "대중교통 경로 조회에 실패했습니다: "

	detailIndent = "    "
)

// section renders one block of the report. An empty result drops the block
// together with its separator.
type section struct {
	sep   string
	build func(*Summary) []string
}

var reportSections = []section{
	{build: routeLine},
	{sep: "\n", build: metricsBlock},
	{sep: "\n\n", build: legsBlock},
}

// Format renders s as a plain-text report. The output depends only on s.
func Format(s *Summary) string {
	var b strings.Builder
	for _, sec := range reportSections {
		lines := sec.build(s)
		if len(lines) == 0 {
			continue
		}
		if b.Len() > 0 {
			b.WriteString(sec.sep)
		}
		b.WriteString(strings.Join(lines, "\n"))
	}
	return b.String()
}

// FormatNotFound returns the fixed sentence used when no route exists.
func FormatNotFound() string {
	return notFoundMessage
}

// FormatFailure reports an upstream failure on a single line.
func FormatFailure(err error) string {
	msg := "unknown error"
	if err != nil {
		msg = strings.Join(strings.Fields(err.Error()), " ")
	}
	return failurePrefix + msg
}

// Render extracts the first itinerary of raw and formats it, falling back to
// the not-found sentence.
func Render(raw map[string]any) string {
	s, err := Extract(raw)
	if err != nil {
		return FormatNotFound()
	}
	return Format(s)
}

// IsNotFound reports whether err means the response held no itinerary.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func routeLine(s *Summary) []string {
	labels := make([]string, 0, len(s.Legs))
	for _, leg := range s.Legs {
		labels = append(labels, shortLabel(leg))
	}
	return []string{strings.Join(labels, arrow)}
}

func shortLabel(leg Leg) string {
	switch {
	case leg.IsWalk():
		return walkLabel
	case leg.Route != "":
		return leg.Route
	case leg.Mode != "":
		return leg.Mode
	default:
		return unknownLabel
	}
}

func metricsBlock(s *Summary) []string {
	var lines []string
	if s.TotalTime != nil {
		lines = append(lines, "소요시간: "+minutes(*s.TotalTime)+"분")
	}
	lines = append(lines, "환승: "+strconv.Itoa(s.TransferCount)+"회")
	if s.Fare != 0 {
		lines = append(lines, "요금: "+strconv.Itoa(s.Fare)+"원")
	}
	if s.TotalDistance != nil {
		lines = append(lines, "총 거리: "+kilometers(*s.TotalDistance)+"km")
	}
	if s.TotalWalkDistance != 0 {
		lines = append(lines, "총 도보거리: "+kilometers(s.TotalWalkDistance)+"km")
	}
	if s.TotalWalkTime != nil {
		lines = append(lines, "총 도보시간: "+minutes(*s.TotalWalkTime)+"분")
	}
	return lines
}

func legsBlock(s *Summary) []string {
	lines := []string{"상세 경로:"}
	for i, leg := range s.Legs {
		if leg.IsWalk() {
			lines = append(lines, walkLeg(i+1, leg)...)
		} else {
			lines = append(lines, transitLeg(i+1, leg)...)
		}
	}
	return lines
}

func walkLeg(n int, leg Leg) []string {
	lines := []string{legHeader(n, walkLabel, leg)}
	if leg.StartName != "" {
		lines = append(lines, detailIndent+"출발: "+leg.StartName)
	}
	if leg.EndName != "" {
		lines = append(lines, detailIndent+"도착: "+leg.EndName)
	}
	for _, step := range leg.Steps {
		lines = append(lines, detailIndent+"- "+step)
	}
	return lines
}

func transitLeg(n int, leg Leg) []string {
	label := leg.Mode
	if label == "" {
		label = unknownLabel
	}
	if leg.Route != "" {
		label += "(" + leg.Route + ")"
	}

	lines := []string{legHeader(n, label, leg)}
	if leg.StartName != "" {
		lines = append(lines, detailIndent+"승차: "+leg.StartName)
	}
	if leg.EndName != "" {
		lines = append(lines, detailIndent+"하차: "+leg.EndName)
	}
	if lane := leg.Lane; lane != nil {
		if lane.Route != "" {
			lines = append(lines, detailIndent+"노선: "+lane.Route)
		}
		if lane.Type != "" {
			lines = append(lines, detailIndent+"노선 유형: "+lane.Type)
		}
		if lane.Service != nil {
			status := serviceEnded
			if *lane.Service {
				status = serviceOperating
			}
			lines = append(lines, detailIndent+"운행 상태: "+status)
		}
	}
	if len(leg.PassedStations) > 0 {
		lines = append(lines, detailIndent+"경유지: "+strings.Join(leg.PassedStations, arrow))
	}
	return lines
}

func legHeader(n int, label string, leg Leg) string {
	sectionTime := 0
	if leg.SectionTime != nil {
		sectionTime = *leg.SectionTime
	}
	return fmt.Sprintf("[%d] %s %skm, %s분", n, label, kilometers(leg.Distance), minutes(sectionTime))
}

// minutes rounds seconds to the nearest whole minute.
func minutes(seconds int) string {
	return strconv.Itoa(int(math.Round(float64(seconds) / 60)))
}

// kilometers renders meters with one decimal place using integer tenths so the
// output never depends on float formatting.
func kilometers(meters int) string {
	tenths := int(math.Round(float64(meters) / 100))
	return strconv.Itoa(tenths/10) + "." + strconv.Itoa(tenths%10)
}
