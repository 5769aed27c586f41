package main

import (
	"net/http"

	"bitbucket.org/montealto-academy/academy_backend/models"
	"github.com/gin-gonic/gin"
)

func registerRosterRoutes(api *gin.RouterGroup) {
	api.GET("/teachers", listTeachersHandler)
	api.GET("/teachers/:id", getTeacherHandler)
	api.POST("/teachers", createTeacherHandler)
	api.PUT("/teachers/:id", updateTeacherHandler)
	api.DELETE("/teachers/:id", deleteTeacherHandler)

	api.GET("/groups", listGroupsHandler)
	api.GET("/groups/:id", getGroupHandler)
	api.POST("/groups", createGroupHandler)
	api.PUT("/groups/:id", updateGroupHandler)
	api.DELETE("/groups/:id", deleteGroupHandler)

	api.GET("/students", listStudentsHandler)
	api.GET("/students/:id", getStudentHandler)
	api.POST("/students", createStudentHandler)
	api.PUT("/students/:id", updateStudentHandler)
	api.DELETE("/students/:id", deleteStudentHandler)

	api.GET("/parents", listParentsHandler)
	api.GET("/parents/:id", getParentHandler)
	api.POST("/parents", createParentHandler)
	api.PUT("/parents/:id", updateParentHandler)
	api.DELETE("/parents/:id", deleteParentHandler)
}

func listTeachersHandler(c *gin.Context) {
	teachers, err := models.FetchTeachers(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, teachers)
}

func getTeacherHandler(c *gin.Context) {
	id, ok := paramId(c)
	if !ok {
		return
	}
	teacher, err := models.GetTeacher(c.Request.Context(), id)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, teacher)
}

func createTeacherHandler(c *gin.Context) {
	var input models.NewTeacher
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	teacher, err := models.CreateTeacher(c.Request.Context(), &input)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, teacher)
}

func updateTeacherHandler(c *gin.Context) {
	id, ok := paramId(c)
	if !ok {
		return
	}
	var input models.NewTeacher
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	teacher, err := models.UpdateTeacher(c.Request.Context(), id, &input)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, teacher)
}

func deleteTeacherHandler(c *gin.Context) {
	id, ok := paramId(c)
	if !ok {
		return
	}
	if err := models.DeleteTeacher(c.Request.Context(), id); err != nil {
		handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func listGroupsHandler(c *gin.Context) {
	groups, err := models.FetchGroups(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, groups)
}

func getGroupHandler(c *gin.Context) {
	id, ok := paramId(c)
	if !ok {
		return
	}
	group, err := models.GetGroup(c.Request.Context(), id)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, group)
}

func createGroupHandler(c *gin.Context) {
	var input models.NewGroup
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	group, err := models.CreateGroup(c.Request.Context(), &input)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, group)
}

func updateGroupHandler(c *gin.Context) {
	id, ok := paramId(c)
	if !ok {
		return
	}
	var input models.NewGroup
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	group, err := models.UpdateGroup(c.Request.Context(), id, &input)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, group)
}

func deleteGroupHandler(c *gin.Context) {
	id, ok := paramId(c)
	if !ok {
		return
	}
	if err := models.DeleteGroup(c.Request.Context(), id); err != nil {
		handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func listStudentsHandler(c *gin.Context) {
	students, err := models.FetchStudents(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, students)
}

func getStudentHandler(c *gin.Context) {
	id, ok := paramId(c)
	if !ok {
		return
	}
	student, err := models.GetStudent(c.Request.Context(), id)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, student)
}

func createStudentHandler(c *gin.Context) {
	var input models.NewStudent
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	student, err := models.CreateStudent(c.Request.Context(), &input)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, student)
}

func updateStudentHandler(c *gin.Context) {
	id, ok := paramId(c)
	if !ok {
		return
	}
	var input models.NewStudent
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	student, err := models.UpdateStudent(c.Request.Context(), id, &input)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, student)
}

func deleteStudentHandler(c *gin.Context) {
	id, ok := paramId(c)
	if !ok {
		return
	}
	if err := models.DeleteStudent(c.Request.Context(), id); err != nil {
		handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func listParentsHandler(c *gin.Context) {
	parents, err := models.FetchParents(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, parents)
}

func getParentHandler(c *gin.Context) {
	id, ok := paramId(c)
	if !ok {
		return
	}
	parent, err := models.GetParent(c.Request.Context(), id)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, parent)
}

func createParentHandler(c *gin.Context) {
	var input models.NewParent
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	parent, err := models.CreateParent(c.Request.Context(), &input)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, parent)
}

func updateParentHandler(c *gin.Context) {
	id, ok := paramId(c)
	if !ok {
		return
	}
	var input models.NewParent
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	parent, err := models.UpdateParent(c.Request.Context(), id, &input)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, parent)
}

func deleteParentHandler(c *gin.Context) {
	id, ok := paramId(c)
	if !ok {
		return
	}
	if err := models.DeleteParent(c.Request.Context(), id); err != nil {
		handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
