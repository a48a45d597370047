package service

import (
	"bitlab_backend/internal/model"
	"bitlab_backend/internal/repository"
	"bitlab_backend/internal/util"
	"bitlab_backend/pkg/tracing"
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"go.opentelemetry.io/otel/attribute"
)

// successRate 返回百分比，没有记录时为 0
func successRate(successful, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(successful) / float64(total) * 100
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// startOfWeek 本周周日 00:00（loc 时区）
func startOfWeek(now time.Time, loc *time.Location) time.Time {
	local := now.In(loc)
	day := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	return day.AddDate(0, 0, -int(day.Weekday()))
}

// BuildProfileStats 由用户全部作答记录计算个人统计。
// activities 需按完成时间升序；月份标签按 loc 时区划分。
func BuildProfileStats(activities []model.UserTaskActivity, now time.Time, loc *time.Location) model.ProfileStats {
	stats := model.ProfileStats{
		MonthlyStats:  []model.MonthlyStat{},
		TotalAttempts: len(activities),
	}

	type monthAcc struct {
		total int
		count int
	}
	months := make(map[string]*monthAcc)
	var monthOrder []string

	uniqueTasks := make(map[uint]struct{})
	completedTasks := make(map[uint]struct{})
	successful := 0

	weekStart := startOfWeek(now, loc)
	weekEnd := weekStart.AddDate(0, 0, 7)

	for _, a := range activities {
		uniqueTasks[a.TaskID] = struct{}{}
		if a.Successful() {
			successful++
			completedTasks[a.TaskID] = struct{}{}
		}

		completed := a.CompletedAt.In(loc)
		label := completed.Format(util.MonthFormat)
		acc, ok := months[label]
		if !ok {
			acc = &monthAcc{}
			months[label] = acc
			monthOrder = append(monthOrder, label)
		}
		acc.total += a.Score
		acc.count++

		if !completed.Before(weekStart) && completed.Before(weekEnd) && a.Successful() {
			stats.DailyStats[completed.Weekday()]++
		}
	}

	sort.Strings(monthOrder)
	for _, label := range monthOrder {
		acc := months[label]
		stats.MonthlyStats = append(stats.MonthlyStats, model.MonthlyStat{
			Month:        label,
			AverageScore: float64(acc.total) / float64(acc.count),
		})
	}

	stats.TotalUniqueTasks = len(uniqueTasks)
	stats.CompletedTasks = len(completedTasks)
	stats.SuccessRate = round2(successRate(successful, len(activities)))
	return stats
}

// BuildSectionStats 按题目分区统计所有用户的正确率；有题但无作答的分区为 0
func BuildSectionStats(tasks []model.Task, activities []model.UserTaskActivity) []model.SectionSuccessRate {
	type sectionAcc struct {
		total      int
		successful int
	}
	sectionOf := make(map[uint]int, len(tasks))
	sections := make(map[int]*sectionAcc)
	for i := range tasks {
		section := tasks[i].Section()
		sectionOf[tasks[i].ID] = section
		if _, ok := sections[section]; !ok {
			sections[section] = &sectionAcc{}
		}
	}

	for _, a := range activities {
		section, ok := sectionOf[a.TaskID]
		if !ok {
			// 题目已删除
			continue
		}
		acc := sections[section]
		acc.total++
		if a.Successful() {
			acc.successful++
		}
	}

	result := make([]model.SectionSuccessRate, 0, len(sections))
	for section, acc := range sections {
		result = append(result, model.SectionSuccessRate{
			Section:     section,
			SuccessRate: successRate(acc.successful, acc.total),
			Attempts:    acc.total,
		})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Section < result[j].Section })
	return result
}

type StatsService struct {
	UserRepo     *repository.UserRepository
	TaskRepo     *repository.TaskRepository
	VariantRepo  *repository.VariantRepository
	ActivityRepo *repository.ActivityRepository
	Location     *time.Location
	Now          func() time.Time
}

func NewStatsService(
	userRepo *repository.UserRepository,
	taskRepo *repository.TaskRepository,
	variantRepo *repository.VariantRepository,
	activityRepo *repository.ActivityRepository,
	loc *time.Location,
) *StatsService {
	if loc == nil {
		loc = time.Local
	}
	return &StatsService{
		UserRepo:     userRepo,
		TaskRepo:     taskRepo,
		VariantRepo:  variantRepo,
		ActivityRepo: activityRepo,
		Location:     loc,
		Now:          time.Now,
	}
}

// GetUserStats 每次请求都从作答记录重新计算
func (s *StatsService) GetUserStats(ctx context.Context, userID uint) (*model.ProfileStats, error) {
	ctx, span := tracing.Tracer().Start(ctx, "StatsService.GetUserStats")
	defer span.End()

	activities, err := s.ActivityRepo.FindByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load activities: %w", err)
	}
	span.SetAttributes(attribute.Int("activities", len(activities)))

	stats := BuildProfileStats(activities, s.Now(), s.Location)
	return &stats, nil
}

func (s *StatsService) GetAdminOverview(ctx context.Context) (*model.AdminOverview, error) {
	ctx, span := tracing.Tracer().Start(ctx, "StatsService.GetAdminOverview")
	defer span.End()

	students, err := s.UserRepo.CountStudents(ctx)
	if err != nil {
		return nil, fmt.Errorf("count students: %w", err)
	}
	variants, err := s.VariantRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count variants: %w", err)
	}
	tasks, err := s.TaskRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load tasks: %w", err)
	}
	activities, err := s.ActivityRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load activities: %w", err)
	}

	return &model.AdminOverview{
		TotalStudents:       students,
		TotalTasks:          int64(len(tasks)),
		TotalVariants:       variants,
		SectionSuccessRates: BuildSectionStats(tasks, activities),
	}, nil
}
