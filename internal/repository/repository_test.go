package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/yukikurage/group-task-api/internal/database"
	"github.com/yukikurage/group-task-api/internal/models"
	"github.com/yukikurage/group-task-api/internal/testutil"
	"github.com/yukikurage/group-task-api/internal/utils"
)

type RepositoryTestSuite struct {
	suite.Suite
	ctx    context.Context
	db     *gorm.DB
	users  UserRepository
	groups GroupRepository
	tasks  TaskRepository
}

func (suite *RepositoryTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.db = testutil.NewDB(suite.T())
	suite.users = NewUserRepository(suite.db)
	suite.groups = NewGroupRepository(suite.db)
	suite.tasks = NewTaskRepository(suite.db)
}

func (suite *RepositoryTestSuite) count(model interface{}, query string, args ...interface{}) int64 {
	var n int64
	suite.Require().NoError(suite.db.Model(model).Where(query, args...).Count(&n).Error)
	return n
}

func (suite *RepositoryTestSuite) TestUserCreate_DuplicateEmail() {
	testutil.CreateUser(suite.T(), suite.db, "alice", "alice@example.com")

	err := suite.users.Create(suite.ctx, &models.User{
		UserName:       "other alice",
		Email:          "alice@example.com",
		HashedPassword: "x",
	})
	suite.ErrorIs(err, ErrDuplicate)
}

func (suite *RepositoryTestSuite) TestUserFindByEmail() {
	user := testutil.CreateUser(suite.T(), suite.db, "alice", "alice@example.com")

	found, err := suite.users.FindByEmail(suite.ctx, "alice@example.com")
	suite.Require().NoError(err)
	suite.Equal(user.UserID, found.UserID)

	_, err = suite.users.FindByEmail(suite.ctx, "nobody@example.com")
	suite.ErrorIs(err, gorm.ErrRecordNotFound)
}

func (suite *RepositoryTestSuite) TestUserUpdate() {
	alice := testutil.CreateUser(suite.T(), suite.db, "alice", "alice@example.com")
	testutil.CreateUser(suite.T(), suite.db, "bob", "bob@example.com")

	alice.UserName = "Alice"
	suite.Require().NoError(suite.users.Update(suite.ctx, alice))

	found, err := suite.users.FindByID(suite.ctx, alice.UserID)
	suite.Require().NoError(err)
	suite.Equal("Alice", found.UserName)

	alice.Email = "bob@example.com"
	suite.ErrorIs(suite.users.Update(suite.ctx, alice), ErrDuplicate)

	suite.ErrorIs(suite.users.Update(suite.ctx, &models.User{UserID: "missing", UserName: "x"}), ErrUserReference)
}

func (suite *RepositoryTestSuite) TestUserDelete_Cascades() {
	owner := testutil.CreateUser(suite.T(), suite.db, "owner", "owner@example.com")
	user := testutil.CreateUser(suite.T(), suite.db, "leaver", "leaver@example.com")
	group := testutil.CreateGroup(suite.T(), suite.db, "home", owner.UserID)
	testutil.AddMember(suite.T(), suite.db, group.GroupID, user.UserID, models.RoleMember)

	task := testutil.CreateTask(suite.T(), suite.db, group.GroupID, "Dishes", testutil.Date(2024, 1, 1))
	_, err := suite.tasks.Assign(suite.ctx, task.TaskID, &user.UserID)
	suite.Require().NoError(err)
	suite.Require().NoError(suite.tasks.UpsertRelation(suite.ctx, &models.TaskUserRelation{
		TaskID: task.TaskID, UserID: user.UserID, Reaction: models.ReactionJoin,
	}))

	suite.Require().NoError(suite.users.Delete(suite.ctx, user.UserID))

	suite.Zero(suite.count(&models.User{}, "user_id = ?", user.UserID))
	suite.Zero(suite.count(&models.GroupMember{}, "user_id = ?", user.UserID))
	suite.Zero(suite.count(&models.TaskUserRelation{}, "user_id = ?", user.UserID))

	kept, err := suite.tasks.FindByID(suite.ctx, task.TaskID)
	suite.Require().NoError(err)
	suite.Nil(kept.AssignedTo)

	// the owner's membership is untouched
	suite.EqualValues(1, suite.count(&models.GroupMember{}, "group_id = ?", group.GroupID))
}

func (suite *RepositoryTestSuite) TestUserDelete_Missing() {
	suite.ErrorIs(suite.users.Delete(suite.ctx, "missing"), ErrUserReference)
}

func (suite *RepositoryTestSuite) TestGroupCreateWithOwner() {
	owner := testutil.CreateUser(suite.T(), suite.db, "owner", "owner@example.com")

	group := &models.Group{GroupName: "home", InviteCode: "code-1"}
	member, err := suite.groups.CreateWithOwner(suite.ctx, group, owner.UserID)
	suite.Require().NoError(err)
	suite.NotEmpty(group.GroupID)
	suite.Equal(models.RoleOwner, member.Role)
	suite.Equal(group.GroupID, member.GroupID)

	found, err := suite.groups.FindByInviteCode(suite.ctx, "code-1")
	suite.Require().NoError(err)
	suite.Equal(group.GroupID, found.GroupID)
}

func (suite *RepositoryTestSuite) TestGroupCreateWithOwner_UnknownUserRollsBack() {
	group := &models.Group{GroupName: "orphan", InviteCode: "code-2"}
	_, err := suite.groups.CreateWithOwner(suite.ctx, group, "missing")
	suite.ErrorIs(err, ErrUserReference)
	suite.Zero(suite.count(&models.Group{}, "group_name = ?", "orphan"))
}

func (suite *RepositoryTestSuite) TestGroupAddMember() {
	owner := testutil.CreateUser(suite.T(), suite.db, "owner", "owner@example.com")
	user := testutil.CreateUser(suite.T(), suite.db, "user", "user@example.com")
	group := testutil.CreateGroup(suite.T(), suite.db, "home", owner.UserID)

	member := &models.GroupMember{GroupID: group.GroupID, UserID: user.UserID}
	suite.Require().NoError(suite.groups.AddMember(suite.ctx, member))
	suite.Equal(models.RoleMember, member.Role)

	tests := []struct {
		name    string
		member  models.GroupMember
		wantErr error
	}{
		{"duplicate", models.GroupMember{GroupID: group.GroupID, UserID: user.UserID}, ErrDuplicate},
		{"unknown group", models.GroupMember{GroupID: "missing", UserID: user.UserID}, ErrGroupReference},
		{"unknown user", models.GroupMember{GroupID: group.GroupID, UserID: "missing"}, ErrUserReference},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			m := tt.member
			suite.ErrorIs(suite.groups.AddMember(suite.ctx, &m), tt.wantErr)
		})
	}

	members, err := suite.groups.ListMembers(suite.ctx, group.GroupID)
	suite.Require().NoError(err)
	suite.Len(members, 2)
	suite.Equal(owner.UserID, members[0].User.UserID)

	memberships, err := suite.groups.ListGroupsForUser(suite.ctx, user.UserID)
	suite.Require().NoError(err)
	suite.Require().Len(memberships, 1)
	suite.Equal("home", memberships[0].Group.GroupName)
}

func (suite *RepositoryTestSuite) TestGroupRemoveMember() {
	owner := testutil.CreateUser(suite.T(), suite.db, "owner", "owner@example.com")
	user := testutil.CreateUser(suite.T(), suite.db, "user", "user@example.com")
	group := testutil.CreateGroup(suite.T(), suite.db, "home", owner.UserID)
	testutil.AddMember(suite.T(), suite.db, group.GroupID, user.UserID, models.RoleMember)

	suite.Require().NoError(suite.groups.RemoveMember(suite.ctx, group.GroupID, user.UserID))
	suite.ErrorIs(suite.groups.RemoveMember(suite.ctx, group.GroupID, user.UserID), gorm.ErrRecordNotFound)

	_, err := suite.groups.FindMember(suite.ctx, group.GroupID, user.UserID)
	suite.ErrorIs(err, gorm.ErrRecordNotFound)
}

func (suite *RepositoryTestSuite) TestGroupRemoveMember_KeepsLastOwner() {
	first := testutil.CreateUser(suite.T(), suite.db, "first", "first@example.com")
	second := testutil.CreateUser(suite.T(), suite.db, "second", "second@example.com")
	group := testutil.CreateGroup(suite.T(), suite.db, "home", first.UserID)

	suite.ErrorIs(suite.groups.RemoveMember(suite.ctx, group.GroupID, first.UserID), ErrLastOwner)
	suite.EqualValues(1, suite.count(&models.GroupMember{}, "group_id = ?", group.GroupID))

	testutil.AddMember(suite.T(), suite.db, group.GroupID, second.UserID, models.RoleOwner)
	suite.Require().NoError(suite.groups.RemoveMember(suite.ctx, group.GroupID, first.UserID))

	// The remaining owner is now the last one.
	suite.ErrorIs(suite.groups.RemoveMember(suite.ctx, group.GroupID, second.UserID), ErrLastOwner)
	suite.EqualValues(1, suite.count(&models.GroupMember{}, "group_id = ? AND role = ?", group.GroupID, models.RoleOwner))
}

func (suite *RepositoryTestSuite) TestGroupUpdate() {
	group := testutil.CreateGroup(suite.T(), suite.db, "home", "")

	description := "the flat"
	group.GroupName = "flat"
	group.Description = &description
	suite.Require().NoError(suite.groups.Update(suite.ctx, group))

	found, err := suite.groups.FindByID(suite.ctx, group.GroupID)
	suite.Require().NoError(err)
	suite.Equal("flat", found.GroupName)
	suite.Require().NotNil(found.Description)
	suite.Equal("the flat", *found.Description)

	suite.ErrorIs(suite.groups.Update(suite.ctx, &models.Group{GroupID: "missing", GroupName: "x"}), ErrGroupReference)
}

func (suite *RepositoryTestSuite) TestGroupDelete_Cascades() {
	owner := testutil.CreateUser(suite.T(), suite.db, "owner", "owner@example.com")
	group := testutil.CreateGroup(suite.T(), suite.db, "home", owner.UserID)
	other := testutil.CreateGroup(suite.T(), suite.db, "work", owner.UserID)

	first := testutil.CreateTask(suite.T(), suite.db, group.GroupID, "Dishes", testutil.Date(2024, 1, 1))
	testutil.CreateTask(suite.T(), suite.db, group.GroupID, "Laundry", testutil.Date(2024, 1, 2))
	survivor := testutil.CreateTask(suite.T(), suite.db, other.GroupID, "Report", testutil.Date(2024, 1, 3))
	suite.Require().NoError(suite.tasks.UpsertRelation(suite.ctx, &models.TaskUserRelation{
		TaskID: first.TaskID, UserID: owner.UserID, Reaction: models.ReactionJoin,
	}))

	suite.Require().NoError(suite.groups.Delete(suite.ctx, group.GroupID))

	suite.Zero(suite.count(&models.Group{}, "group_id = ?", group.GroupID))
	suite.Zero(suite.count(&models.Task{}, "group_id = ?", group.GroupID))
	suite.Zero(suite.count(&models.GroupMember{}, "group_id = ?", group.GroupID))
	suite.Zero(suite.count(&models.TaskUserRelation{}, "task_id = ?", first.TaskID))

	_, err := suite.tasks.FindByID(suite.ctx, survivor.TaskID)
	suite.NoError(err)
	suite.EqualValues(1, suite.count(&models.GroupMember{}, "group_id = ?", other.GroupID))

	suite.ErrorIs(suite.groups.Delete(suite.ctx, group.GroupID), ErrGroupReference)
}

func (suite *RepositoryTestSuite) TestTaskCreate_UnknownGroup() {
	err := suite.tasks.Create(suite.ctx, &models.Task{
		GroupID: "missing",
		Title:   "Nowhere",
		Date:    testutil.Date(2024, 1, 1),
	})
	suite.ErrorIs(err, ErrGroupReference)
	suite.Zero(suite.count(&models.Task{}, "1 = 1"))
}

func (suite *RepositoryTestSuite) TestTaskCreate_UnknownAssignee() {
	group := testutil.CreateGroup(suite.T(), suite.db, "home", "")
	missing := "missing"

	err := suite.tasks.Create(suite.ctx, &models.Task{
		GroupID:    group.GroupID,
		AssignedTo: &missing,
		Title:      "Ghost work",
		Date:       testutil.Date(2024, 1, 1),
	})
	suite.ErrorIs(err, ErrUserReference)
	suite.Zero(suite.count(&models.Task{}, "group_id = ?", group.GroupID))
}

func (suite *RepositoryTestSuite) TestTaskUpdateAndDelete() {
	group := testutil.CreateGroup(suite.T(), suite.db, "home", "")
	task := testutil.CreateTask(suite.T(), suite.db, group.GroupID, "Dishes", testutil.Date(2024, 1, 1))
	before := task.UpdatedAt

	done := "done"
	task.Status = &done
	suite.Require().NoError(suite.tasks.Update(suite.ctx, task, "status"))

	found, err := suite.tasks.FindByID(suite.ctx, task.TaskID, "Group")
	suite.Require().NoError(err)
	suite.Require().NotNil(found.Status)
	suite.Equal("done", *found.Status)
	suite.Equal("home", found.Group.GroupName)
	suite.False(found.UpdatedAt.Before(before))

	suite.Require().NoError(suite.tasks.Delete(suite.ctx, task.TaskID))
	_, err = suite.tasks.FindByID(suite.ctx, task.TaskID)
	suite.ErrorIs(err, gorm.ErrRecordNotFound)

	suite.ErrorIs(suite.tasks.Delete(suite.ctx, task.TaskID), ErrTaskReference)
	suite.ErrorIs(suite.tasks.Update(suite.ctx, task), ErrTaskReference)
}

func (suite *RepositoryTestSuite) TestTaskAssign() {
	user := testutil.CreateUser(suite.T(), suite.db, "user", "user@example.com")
	group := testutil.CreateGroup(suite.T(), suite.db, "home", user.UserID)
	task := testutil.CreateTask(suite.T(), suite.db, group.GroupID, "Dishes", testutil.Date(2024, 1, 1))

	assigned, err := suite.tasks.Assign(suite.ctx, task.TaskID, &user.UserID)
	suite.Require().NoError(err)
	suite.Require().NotNil(assigned.AssignedTo)
	suite.Equal(user.UserID, *assigned.AssignedTo)

	missing := "missing"
	_, err = suite.tasks.Assign(suite.ctx, task.TaskID, &missing)
	suite.ErrorIs(err, ErrUserReference)

	_, err = suite.tasks.Assign(suite.ctx, "missing", &user.UserID)
	suite.ErrorIs(err, ErrTaskReference)

	cleared, err := suite.tasks.Assign(suite.ctx, task.TaskID, nil)
	suite.Require().NoError(err)
	suite.Nil(cleared.AssignedTo)
}

func (suite *RepositoryTestSuite) TestTaskListByGroup_OrderedByDate() {
	group := testutil.CreateGroup(suite.T(), suite.db, "home", "")
	testutil.CreateTask(suite.T(), suite.db, group.GroupID, "third", testutil.Date(2024, 3, 1))
	testutil.CreateTask(suite.T(), suite.db, group.GroupID, "first", testutil.Date(2024, 1, 1))
	testutil.CreateTask(suite.T(), suite.db, group.GroupID, "second", testutil.Date(2024, 2, 1))

	tasks, err := suite.tasks.ListByGroup(suite.ctx, group.GroupID)
	suite.Require().NoError(err)
	suite.Require().Len(tasks, 3)
	suite.Equal("first", tasks[0].Title)
	suite.Equal("second", tasks[1].Title)
	suite.Equal("third", tasks[2].Title)
}

func (suite *RepositoryTestSuite) TestTaskListForUser() {
	user := testutil.CreateUser(suite.T(), suite.db, "user", "user@example.com")
	group := testutil.CreateGroup(suite.T(), suite.db, "home", user.UserID)

	assigned := testutil.CreateTask(suite.T(), suite.db, group.GroupID, "assigned", testutil.Date(2024, 1, 2))
	joined := testutil.CreateTask(suite.T(), suite.db, group.GroupID, "joined", testutil.Date(2024, 1, 1))
	declined := testutil.CreateTask(suite.T(), suite.db, group.GroupID, "declined", testutil.Date(2024, 1, 3))
	testutil.CreateTask(suite.T(), suite.db, group.GroupID, "unrelated", testutil.Date(2024, 1, 4))

	_, err := suite.tasks.Assign(suite.ctx, assigned.TaskID, &user.UserID)
	suite.Require().NoError(err)
	suite.Require().NoError(suite.tasks.UpsertRelation(suite.ctx, &models.TaskUserRelation{
		TaskID: joined.TaskID, UserID: user.UserID, Reaction: models.ReactionJoin,
	}))
	suite.Require().NoError(suite.tasks.UpsertRelation(suite.ctx, &models.TaskUserRelation{
		TaskID: declined.TaskID, UserID: user.UserID, Reaction: models.ReactionDecline,
	}))

	tasks, total, err := suite.tasks.ListForUser(suite.ctx, user.UserID, utils.PaginationParams{Page: 1, Limit: 10})
	suite.Require().NoError(err)
	suite.EqualValues(2, total)
	suite.Require().Len(tasks, 2)
	suite.Equal("joined", tasks[0].Title)
	suite.Equal("assigned", tasks[1].Title)
	suite.Equal("home", tasks[0].Group.GroupName)

	page, total, err := suite.tasks.ListForUser(suite.ctx, user.UserID, utils.PaginationParams{Page: 2, Limit: 1, Offset: 1})
	suite.Require().NoError(err)
	suite.EqualValues(2, total)
	suite.Require().Len(page, 1)
	suite.Equal("assigned", page[0].Title)
}

func (suite *RepositoryTestSuite) TestTaskRelations() {
	user := testutil.CreateUser(suite.T(), suite.db, "user", "user@example.com")
	group := testutil.CreateGroup(suite.T(), suite.db, "home", user.UserID)
	task := testutil.CreateTask(suite.T(), suite.db, group.GroupID, "Dishes", testutil.Date(2024, 1, 1))

	suite.Require().NoError(suite.tasks.UpsertRelation(suite.ctx, &models.TaskUserRelation{
		TaskID: task.TaskID, UserID: user.UserID, Reaction: models.ReactionJoin,
	}))
	suite.Require().NoError(suite.tasks.UpsertRelation(suite.ctx, &models.TaskUserRelation{
		TaskID: task.TaskID, UserID: user.UserID, Reaction: models.ReactionDecline,
	}))

	relations, err := suite.tasks.ListRelations(suite.ctx, task.TaskID)
	suite.Require().NoError(err)
	suite.Require().Len(relations, 1)
	suite.Equal(models.ReactionDecline, relations[0].Reaction)
	suite.Equal("user", relations[0].User.UserName)

	err = suite.tasks.UpsertRelation(suite.ctx, &models.TaskUserRelation{
		TaskID: "missing", UserID: user.UserID, Reaction: models.ReactionJoin,
	})
	suite.ErrorIs(err, ErrTaskReference)

	err = suite.tasks.UpsertRelation(suite.ctx, &models.TaskUserRelation{
		TaskID: task.TaskID, UserID: "missing", Reaction: models.ReactionJoin,
	})
	suite.ErrorIs(err, ErrUserReference)

	suite.Require().NoError(suite.tasks.DeleteRelation(suite.ctx, task.TaskID, user.UserID))
	suite.ErrorIs(suite.tasks.DeleteRelation(suite.ctx, task.TaskID, user.UserID), gorm.ErrRecordNotFound)
}

func TestRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(RepositoryTestSuite))
}

func TestGroupDelete_RollsBackOnFailure(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), database.NewGormConfig(gormlogger.Silent))
	require.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT \\* FROM `groups`").
		WillReturnRows(sqlmock.NewRows([]string{"group_id", "group_name", "invite_code"}).
			AddRow("g1", "home", "code"))
	mock.ExpectExec("DELETE FROM `task_user_relations`").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("DELETE FROM `tasks`").
		WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	err = NewGroupRepository(db).Delete(context.Background(), "g1")
	assert.EqualError(t, err, "disk full")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserDelete_RollsBackOnFailure(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), database.NewGormConfig(gormlogger.Silent))
	require.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT \\* FROM `users`").
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "user_name", "email"}).
			AddRow("u1", "alice", "alice@example.com"))
	mock.ExpectExec("DELETE FROM `task_user_relations`").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM `group_members`").
		WillReturnError(errors.New("lock wait timeout"))
	mock.ExpectRollback()

	err = NewUserRepository(db).Delete(context.Background(), "u1")
	assert.EqualError(t, err, "lock wait timeout")
	assert.NoError(t, mock.ExpectationsWereMet())
}
