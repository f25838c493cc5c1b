package service

import (
	"time"

	"github.com/qs3c/forum_server/internal/model"
	"github.com/qs3c/forum_server/internal/model/dto"
	"github.com/qs3c/forum_server/internal/pkg/thread"
)

func formatTime(t time.Time) string {
	return t.Format(time.RFC3339)
}

func formatTimePtr(t *time.Time) string {
	if t == nil {
		return ""
	}
	return formatTime(*t)
}

func buildUserInfo(user *model.User) *dto.UserInfo {
	info := &dto.UserInfo{
		ID:            user.ID,
		Username:      user.Username,
		FullName:      user.FullName,
		Country:       user.Country,
		StateProvince: user.StateProvince,
		PhoneNumber:   user.PhoneNumber,
		AvatarURL:     user.AvatarURL,
		Bio:           user.Bio,
		Role:          user.Role(),
		IsActive:      user.IsActive,
		IsAdmin:       user.IsAdmin,
		IsModerator:   user.IsModerator,
		IsBanned:      user.IsBanned,
		BanReason:     user.BanReason,
		BannedAt:      formatTimePtr(user.BannedAt),
		LastLogin:     formatTimePtr(user.LastLogin),
		CreatedAt:     formatTime(user.CreatedAt),
	}
	if user.Email != nil {
		info.Email = *user.Email
	}
	return info
}

func buildPublicUser(user *model.User) *dto.PublicUser {
	return &dto.PublicUser{
		ID:        user.ID,
		Username:  user.Username,
		FullName:  user.FullName,
		Country:   user.Country,
		AvatarURL: user.AvatarURL,
		Bio:       user.Bio,
		Role:      user.Role(),
		CreatedAt: formatTime(user.CreatedAt),
	}
}

func buildAuthor(user *model.User) *dto.AuthorInfo {
	if user == nil {
		return nil
	}
	return &dto.AuthorInfo{
		ID:        user.ID,
		Username:  user.Username,
		AvatarURL: user.AvatarURL,
		Role:      user.Role(),
	}
}

func buildCategoryItem(c *model.Category) *dto.CategoryItem {
	return &dto.CategoryItem{
		ID:          c.ID,
		Name:        c.Name,
		Slug:        c.Slug,
		Description: c.Description,
		SortOrder:   c.SortOrder,
		ParentID:    c.ParentID,
	}
}

func buildPostItem(p *model.Post) *dto.PostItem {
	images := []string(p.Images)
	if images == nil {
		images = []string{}
	}
	item := &dto.PostItem{
		ID:            p.ID,
		CategoryID:    p.CategoryID,
		Author:        buildAuthor(p.User),
		Title:         p.Title,
		Content:       p.Content,
		Images:        images,
		IsPinned:      p.IsPinned,
		IsLocked:      p.IsLocked,
		ViewCount:     p.ViewCount,
		ReplyCount:    p.ReplyCount,
		LastReplyAt:   formatTimePtr(p.LastReplyAt),
		LastReplyUser: buildAuthor(p.LastReplyUser),
		CreatedAt:     formatTime(p.CreatedAt),
		UpdatedAt:     formatTime(p.UpdatedAt),
	}
	if p.Category != nil {
		item.Category = &dto.CategoryBrief{ID: p.Category.ID, Name: p.Category.Name, Slug: p.Category.Slug}
	}
	return item
}

func buildPostItems(posts []*model.Post) []*dto.PostItem {
	items := make([]*dto.PostItem, 0, len(posts))
	for _, p := range posts {
		items = append(items, buildPostItem(p))
	}
	return items
}

func buildReplyItem(r *model.Reply) *dto.ReplyItem {
	return &dto.ReplyItem{
		ID:            r.ID,
		PostID:        r.PostID,
		ParentReplyID: r.ParentReplyID,
		Author:        buildAuthor(r.User),
		Content:       r.Content,
		CreatedAt:     formatTime(r.CreatedAt),
		UpdatedAt:     formatTime(r.UpdatedAt),
	}
}

// buildReplyTree 把楼层树转换为响应结构，保持子节点顺序
func buildReplyTree(roots []*thread.Node) []*dto.ReplyNode {
	out := make([]*dto.ReplyNode, 0, len(roots))
	converted := make(map[*thread.Node]*dto.ReplyNode, len(roots))

	thread.Walk(roots, func(n, parent *thread.Node, _ int) {
		node := &dto.ReplyNode{
			ReplyItem: *buildReplyItem(n.Reply),
			Children:  make([]*dto.ReplyNode, 0, len(n.Children)),
		}
		converted[n] = node
		if parent == nil {
			out = append(out, node)
			return
		}
		p := converted[parent]
		p.Children = append(p.Children, node)
	})

	return out
}

// clampPage 页码从 1 开始，每页数量限制在 [1, maxSize]
func clampPage(page, pageSize, maxSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 1
	}
	if pageSize > maxSize {
		pageSize = maxSize
	}
	return page, pageSize
}

// NormalizePage 列表接口实际使用的页码与每页数量
func NormalizePage(page, pageSize int) (int, int) {
	return clampPage(page, pageSize, maxPageSize)
}

func totalPages(total int64, pageSize int) int {
	if pageSize <= 0 || total <= 0 {
		return 0
	}
	return int((total + int64(pageSize) - 1) / int64(pageSize))
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
