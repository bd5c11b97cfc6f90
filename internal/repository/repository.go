package repository

// postgres unique constraint violation
const pgErrUniqueViolationCode = "23505"
