package controllers

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/gofiber/fiber/v2"
	"github.com/kaobian-ai/kaobian-server/config"
	jobdata "github.com/kaobian-ai/kaobian-server/models/jobdata"
	"github.com/kaobian-ai/kaobian-server/repos"
	"github.com/kaobian-ai/kaobian-server/utils"
	"github.com/rs/zerolog/log"
	"go.uber.org/fx"
)

const (
	jobPageSize     = 9
	featuredLimit   = 6
	historyLimit    = 50
	jobDetailTtl    = 5 * time.Minute
	featuredJobsTtl = 5 * time.Minute
)

type JobController struct {
	fx.In

	JobRepo         *repos.JobRepo
	ApplicationRepo *repos.ApplicationRepo
	BookmarkRepo    *repos.BookmarkRepo
	HistoryRepo     *repos.BrowseHistoryRepo
	UserRepo        *repos.UserRepo
	Redis           *redis.Client
}

func RegisterJobController(r *utils.Router, config *config.Config, c JobController) {
	jobs := r.Group("/api/jobs")

	jobs.Get("/", c.listJobs)
	jobs.Get("/featured", c.featuredJobs)
	jobs.Get("/categories", c.listCategories)
	jobs.Get("/:id", utils.SoftProtected(standardRoute), c.jobDetail)
	jobs.Post("/:id/apply", utils.Protected(standardRoute), c.applyJob)
	jobs.Post("/:id/bookmark", utils.Protected(standardRoute), c.toggleBookmark)

	accounts := r.Group("/api/accounts")

	accounts.Get("/applications", utils.Protected(standardRoute), c.myApplications)
	accounts.Get("/bookmarks", utils.Protected(standardRoute), c.myBookmarks)
	accounts.Get("/browse-history", utils.Protected(standardRoute), c.myBrowseHistory)
}

func (r *JobController) listJobs(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	if page < 1 {
		page = 1
	}
	categoryId, _ := strconv.ParseInt(c.Query("category"), 10, 64)

	jobs, total, err := r.JobRepo.List(c.Context(), repos.JobFilter{
		Keyword:    c.Query("q"),
		Location:   c.Query("location"),
		CategoryId: categoryId,
		JobType:    c.Query("job_type"),
		Page:       page,
		PageSize:   jobPageSize,
	})
	if err != nil {
		return utils.StandardInternalError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"jobs":    jobs,
		"total":   total,
		"page":    page,
		"pages":   (total + jobPageSize - 1) / jobPageSize,
	})
}

// featuredJobs serves the home-page list from redis when warm.
func (r *JobController) featuredJobs(c *fiber.Ctx) error {
	const key = "jobs:featured"

	if cached, err := r.Redis.Get(c.Context(), key).Bytes(); err == nil {
		c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		return c.Send(cached)
	}

	jobs, err := r.JobRepo.Featured(c.Context(), featuredLimit)
	if err != nil {
		return utils.StandardInternalError(c, err)
	}

	payload, err := json.Marshal(fiber.Map{"success": true, "jobs": jobs})
	if err != nil {
		return utils.StandardInternalError(c, err)
	}

	if err := r.Redis.Set(c.Context(), key, payload, featuredJobsTtl).Err(); err != nil {
		log.Warn().Err(err).Msg("Could not cache featured jobs")
	}

	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Send(payload)
}

func (r *JobController) listCategories(c *fiber.Ctx) error {
	categories, err := r.JobRepo.Categories(c.Context())
	if err != nil {
		return utils.StandardInternalError(c, err)
	}

	return c.JSON(fiber.Map{"success": true, "categories": categories})
}

func (r *JobController) jobDetail(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return respond(c, fiber.StatusBadRequest, false, "无效的职位编号")
	}

	job, err := r.cachedJob(c, id)
	if err != nil {
		return respond(c, fiber.StatusNotFound, false, "职位不存在或已下架")
	}

	response := fiber.Map{"success": true, "job": job}

	// Authenticated seekers get their own state and leave a browse-history
	// trail.
	if userId, ok := c.Locals("user").(int64); ok {
		if seekerId, err := r.seekerId(c, userId); err == nil {
			if applied, err := r.ApplicationRepo.HasApplied(c.Context(), id, seekerId); err == nil {
				response["has_applied"] = applied
			}
			if bookmarked, err := r.BookmarkRepo.IsBookmarked(c.Context(), id, seekerId); err == nil {
				response["is_bookmarked"] = bookmarked
			}
			r.recordBrowse(c, id, seekerId)
		}
	}

	return c.JSON(response)
}

// cachedJob reads the job payload through the redis cache.
func (r *JobController) cachedJob(c *fiber.Ctx, id int64) (*jobdata.Job, error) {
	key := "jobs:detail:" + strconv.FormatInt(id, 10)

	if cached, err := r.Redis.Get(c.Context(), key).Bytes(); err == nil {
		job := new(jobdata.Job)
		if err := json.Unmarshal(cached, job); err == nil {
			return job, nil
		}
	}

	job, err := r.JobRepo.GetJob(c.Context(), id)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(job); err == nil {
		if err := r.Redis.Set(c.Context(), key, payload, jobDetailTtl).Err(); err != nil {
			log.Warn().Err(err).Int64("job", id).Msg("Could not cache job detail")
		}
	}

	return job, nil
}

func (r *JobController) recordBrowse(c *fiber.Ctx, jobId, seekerId int64) {
	source, agent := clientInfo(c)
	if err := r.HistoryRepo.Record(c.Context(), jobdata.BrowseHistory{
		JobId:         jobId,
		SeekerId:      seekerId,
		SourceAddress: source,
		ClientInfo:    agent,
	}); err != nil {
		log.Warn().Err(err).Int64("job", jobId).Msg("Could not record browse history")
	}
}

type applyRequest struct {
	CoverLetter string `json:"cover_letter"`
}

func (r *JobController) applyJob(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return respond(c, fiber.StatusBadRequest, false, "无效的职位编号")
	}

	req := new(applyRequest)
	c.BodyParser(req)

	if _, err := r.JobRepo.GetJob(c.Context(), id); err != nil {
		return respond(c, fiber.StatusNotFound, false, "职位不存在或已下架")
	}

	seekerId, err := r.seekerId(c, c.Locals("user").(int64))
	if err != nil {
		return respond(c, fiber.StatusForbidden, false, "仅求职者可以申请职位")
	}

	applied, err := r.ApplicationRepo.HasApplied(c.Context(), id, seekerId)
	if err != nil {
		return utils.StandardInternalError(c, err)
	}
	if applied {
		return respond(c, fiber.StatusBadRequest, false, "您已经申请过这个职位")
	}

	if _, err := r.ApplicationRepo.Add(c.Context(), jobdata.Application{
		JobId:       id,
		SeekerId:    seekerId,
		CoverLetter: req.CoverLetter,
		Status:      jobdata.ApplicationPending,
	}); err != nil {
		return utils.StandardInternalError(c, err)
	}

	return respond(c, fiber.StatusOK, true, "申请提交成功！")
}

func (r *JobController) toggleBookmark(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return respond(c, fiber.StatusBadRequest, false, "无效的职位编号")
	}

	seekerId, err := r.seekerId(c, c.Locals("user").(int64))
	if err != nil {
		return respond(c, fiber.StatusForbidden, false, "仅求职者可以收藏职位")
	}

	bookmarked, err := r.BookmarkRepo.Toggle(c.Context(), id, seekerId)
	if err != nil {
		return utils.StandardInternalError(c, err)
	}

	if bookmarked {
		return respond(c, fiber.StatusOK, true, "收藏成功")
	}
	return respond(c, fiber.StatusOK, true, "已取消收藏")
}

func (r *JobController) myApplications(c *fiber.Ctx) error {
	seekerId, err := r.seekerId(c, c.Locals("user").(int64))
	if err != nil {
		return respond(c, fiber.StatusForbidden, false, "仅求职者可以查看申请记录")
	}

	applications, err := r.ApplicationRepo.ListForSeeker(c.Context(), seekerId)
	if err != nil {
		return utils.StandardInternalError(c, err)
	}

	return c.JSON(fiber.Map{"success": true, "applications": applications})
}

func (r *JobController) myBookmarks(c *fiber.Ctx) error {
	seekerId, err := r.seekerId(c, c.Locals("user").(int64))
	if err != nil {
		return respond(c, fiber.StatusForbidden, false, "仅求职者可以查看收藏")
	}

	bookmarks, err := r.BookmarkRepo.ListForSeeker(c.Context(), seekerId)
	if err != nil {
		return utils.StandardInternalError(c, err)
	}

	return c.JSON(fiber.Map{"success": true, "bookmarks": bookmarks})
}

func (r *JobController) myBrowseHistory(c *fiber.Ctx) error {
	seekerId, err := r.seekerId(c, c.Locals("user").(int64))
	if err != nil {
		return respond(c, fiber.StatusForbidden, false, "仅求职者可以查看浏览历史")
	}

	history, err := r.HistoryRepo.Recent(c.Context(), seekerId, historyLimit)
	if err != nil {
		return utils.StandardInternalError(c, err)
	}

	return c.JSON(fiber.Map{"success": true, "history": history})
}

func (r *JobController) seekerId(c *fiber.Ctx, userId int64) (int64, error) {
	user, err := r.UserRepo.GetUser(c.Context(), userId)
	if err != nil {
		return 0, err
	}
	if user.SeekerProfile == nil {
		return 0, fiber.ErrForbidden
	}
	return user.SeekerProfile.Id, nil
}
