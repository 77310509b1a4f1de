package database

import (
	"algoquiz_backend/internal/config"
	"algoquiz_backend/internal/model"
	"fmt"
	"log"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDB(cfg *config.Config) (*gorm.DB, error) {
	db := cfg.Database
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
		db.User,
		db.Password,
		db.Host,
		db.Port,
		db.DBName,
		db.Charset,
		db.ParseTime,
	)

	conn, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	})

	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	// release 模式默认不迁移，除非显式指定 --migrate
	if cfg.Server.Mode == "release" && !cfg.ForceMigrate {
		return conn, nil
	}

	err = conn.AutoMigrate(
		&model.User{},
		&model.Quiz{},
		&model.QuizQuestion{},
		&model.QuizOption{},
		&model.QuizAttempt{},
		&model.DailyProgress{},
		&model.UserAchievement{},
	)

	if err != nil {
		return nil, err
	}

	log.Println("Database migration completed")

	seedDemoData(conn)

	return conn, nil
}

// seedDemoData 题库为空时插入演示测验和演示账号，方便本地联调
func seedDemoData(db *gorm.DB) {
	var quizCount int64
	db.Model(&model.Quiz{}).Count(&quizCount)
	if quizCount == 0 {
		for _, q := range defaultQuizzes() {
			quiz := q
			db.Create(&quiz)
		}
	}

	var userCount int64
	db.Model(&model.User{}).Count(&userCount)
	if userCount == 0 {
		hashed, err := bcrypt.GenerateFromPassword([]byte("demo1234"), bcrypt.DefaultCost)
		if err == nil {
			db.Create(&model.User{
				Name:     "演示学员",
				Email:    "demo@algoquiz.local",
				Password: string(hashed),
				Role:     model.Student,
			})
		}
	}
}

func defaultQuizzes() []model.Quiz {
	return []model.Quiz{
		{
			Title:       "数组基础",
			Topic:       "array",
			Description: "数组的存储结构与随机访问",
			Difficulty:  "beginner",
			Questions: []model.QuizQuestion{
				{
					Text:     "数组按下标访问元素的时间复杂度是？",
					Position: 1,
					Options: []model.QuizOption{
						{Text: "O(1)", IsCorrect: true, Position: 1},
						{Text: "O(n)", Position: 2},
						{Text: "O(log n)", Position: 3},
					},
				},
				{
					Text:     "在数组头部插入一个元素需要移动多少个元素？",
					Position: 2,
					Options: []model.QuizOption{
						{Text: "全部已有元素", IsCorrect: true, Position: 1},
						{Text: "一半元素", Position: 2},
						{Text: "不需要移动", Position: 3},
					},
				},
			},
		},
		{
			Title:       "链表入门",
			Topic:       "linked_list",
			Description: "单链表的基本操作",
			Difficulty:  "beginner",
			Questions: []model.QuizQuestion{
				{
					Text:     "单链表中删除已知前驱的节点的时间复杂度是？",
					Position: 1,
					Options: []model.QuizOption{
						{Text: "O(1)", IsCorrect: true, Position: 1},
						{Text: "O(n)", Position: 2},
					},
				},
				{
					Text:     "以下哪些是链表相对数组的优势？（多选）",
					Position: 2,
					Options: []model.QuizOption{
						{Text: "插入删除不需要整体搬移", IsCorrect: true, Position: 1},
						{Text: "支持 O(1) 随机访问", Position: 2},
						{Text: "容量可以动态增长", IsCorrect: true, Position: 3},
					},
				},
			},
		},
		{
			Title:       "二叉树遍历",
			Topic:       "binary_tree",
			Description: "前中后序与层次遍历",
			Difficulty:  "intermediate",
			Questions: []model.QuizQuestion{
				{
					Text:     "中序遍历二叉搜索树得到的序列是？",
					Position: 1,
					Options: []model.QuizOption{
						{Text: "升序序列", IsCorrect: true, Position: 1},
						{Text: "降序序列", Position: 2},
						{Text: "无序序列", Position: 3},
					},
				},
			},
		},
	}
}
